package chains

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fundingpath/signalchain/internal/models"
)

// DefaultCacheSize bounds the per-entity chain cache when no size is configured
const DefaultCacheSize = 4096

// Builder discovers signal chains by recursive expansion of trigger,
// correlation, and implication edges. Results are cached per
// (entityID, signalSetVersion); a per-entity mutex guarantees at-most-once
// computation for concurrent callers.
type Builder struct {
	index *SignalIndex
	cache *lru.Cache[string, []models.SignalChain]
	locks sync.Map // entity id -> *sync.Mutex
}

// NewBuilder creates a chain builder over a signal index. The static rule
// tables are validated here so a malformed table fails construction.
func NewBuilder(index *SignalIndex, cacheSize int) (*Builder, error) {
	if err := ValidateRuleTables(); err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []models.SignalChain](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create chain cache: %w", err)
	}
	return &Builder{index: index, cache: cache}, nil
}

// Index returns the signal index the builder reads from
func (b *Builder) Index() *SignalIndex {
	return b.index
}

// DetectSignalChains computes (or returns cached) chains for one entity,
// sorted by non-increasing chain strength. Unknown entity ids yield an empty
// result, never an error; an invalid config is rejected.
func (b *Builder) DetectSignalChains(ctx context.Context, entityID string, cfg ChainConfig) ([]models.SignalChain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	entity, ok := b.index.Entity(entityID)
	if !ok {
		return []models.SignalChain{}, nil
	}

	key := entityID + "@" + b.index.Version(entityID)
	if chains, ok := b.cache.Get(key); ok {
		return chains, nil
	}

	lock := b.entityLock(entityID)
	lock.Lock()
	defer lock.Unlock()

	// Another caller may have finished while we waited for the lock
	if chains, ok := b.cache.Get(key); ok {
		return chains, nil
	}

	chains, err := b.computeChains(ctx, entity, cfg)
	if err != nil {
		return nil, err
	}
	b.cache.Add(key, chains)
	return chains, nil
}

// InvalidateEntity drops any cached chains for an entity. Called when the
// snapshot owner knows the entity changed without a full index rebuild.
func (b *Builder) InvalidateEntity(entityID string) {
	for _, key := range b.cache.Keys() {
		if len(key) > len(entityID) && key[:len(entityID)] == entityID && key[len(entityID)] == '@' {
			b.cache.Remove(key)
		}
	}
}

// PurgeCache drops all cached chains
func (b *Builder) PurgeCache() {
	b.cache.Purge()
}

func (b *Builder) entityLock(entityID string) *sync.Mutex {
	actual, _ := b.locks.LoadOrStore(entityID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func (b *Builder) computeChains(ctx context.Context, entity models.Entity, cfg ChainConfig) ([]models.SignalChain, error) {
	chains := []models.SignalChain{}
	detectedAt := time.Now().UTC()

	for _, root := range entity.Signals {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		path := make([]string, 0, cfg.MaxDepth+1)
		chained := expandSignal(cfg, entity.Signals, root, 0, map[string]struct{}{}, &path)
		if len(chained) == 0 {
			// A chain needs at least one discovered relationship
			continue
		}
		chains = append(chains, buildChain(entity.ID, root, chained, path, detectedAt))
	}

	sort.SliceStable(chains, func(i, j int) bool {
		return chains[i].ChainStrength > chains[j].ChainStrength
	})
	return chains, nil
}

// expandSignal recursively discovers relationships from the current signal.
// Grandchildren on trigger edges are flattened into the same accumulator;
// correlation and implication edges do not recurse.
//
// The visited set is copied per branch so sibling branches can independently
// rediscover a signal: within one trigger path a signal never repeats, but
// the same signal may legitimately appear twice in one chain via different
// branches or relationship kinds.
func expandSignal(cfg ChainConfig, signals []models.GrowthSignal, current models.GrowthSignal, depth int, visited map[string]struct{}, path *[]string) []models.ChainedSignal {
	if depth >= cfg.MaxDepth {
		return nil
	}
	if _, seen := visited[current.ID]; seen {
		return nil
	}

	branch := make(map[string]struct{}, len(visited)+1)
	for id := range visited {
		branch[id] = struct{}{}
	}
	branch[current.ID] = struct{}{}

	*path = append(*path, fmt.Sprintf("%s@depth%d", current.Type, depth))

	var chained []models.ChainedSignal

	// Trigger edges: configured directional rules, recursed
	for _, targetType := range cfg.SignalTriggers[current.Type] {
		for _, candidate := range signals {
			if candidate.ID == current.ID || candidate.Type != targetType {
				continue
			}
			if candidate.Confidence < cfg.MinConfidence {
				continue
			}
			if _, seen := branch[candidate.ID]; seen {
				continue
			}
			confidence := RelationshipConfidence(current, candidate, models.RelationshipTriggeredBy)
			if confidence < cfg.MinConfidence {
				continue
			}
			chained = append(chained, models.ChainedSignal{
				Signal:         candidate,
				Depth:          depth + 1,
				ParentSignalID: current.ID,
				Relationship:   models.RelationshipTriggeredBy,
				Confidence:     confidence,
			})
			chained = append(chained, expandSignal(cfg, signals, candidate, depth+1, branch, path)...)
		}
	}

	// Correlation edges: time-windowed, direction-independent, not recursed
	for _, candidate := range signals {
		if candidate.ID == current.ID {
			continue
		}
		if _, seen := branch[candidate.ID]; seen {
			continue
		}
		if daysBetween(current.DetectedDate, candidate.DetectedDate) > correlationWindowDays {
			continue
		}
		correlation := Correlation(current, candidate)
		if correlation < cfg.CorrelationThreshold {
			continue
		}
		chained = append(chained, models.ChainedSignal{
			Signal:         candidate,
			Depth:          depth + 1,
			ParentSignalID: current.ID,
			Relationship:   models.RelationshipCorrelatedWith,
			Confidence:     correlation,
		})
	}

	// Implication edges: static table, order-sensitive, not recursed
	for _, impliedType := range impliedTypes(current.Type) {
		for _, candidate := range signals {
			if candidate.ID == current.ID || candidate.Type != impliedType {
				continue
			}
			if candidate.DetectedDate.Before(current.DetectedDate) {
				continue
			}
			confidence := RelationshipConfidence(current, candidate, models.RelationshipImplies)
			if confidence < cfg.MinConfidence {
				continue
			}
			chained = append(chained, models.ChainedSignal{
				Signal:         candidate,
				Depth:          depth + 1,
				ParentSignalID: current.ID,
				Relationship:   models.RelationshipImplies,
				Confidence:     confidence,
			})
		}
	}

	return chained
}

// buildChain aggregates a root and its discovered relationships into a chain.
// Deeper signals are deliberately down-weighted by 1/(depth+1). Chain
// strength additionally weighs each relationship by the underlying signal's
// own confidence; total confidence uses the relationship confidences alone.
func buildChain(entityID string, root models.GrowthSignal, chained []models.ChainedSignal, path []string, detectedAt time.Time) models.SignalChain {
	strengthSum := root.Confidence
	confidenceSum := root.Confidence
	for _, cs := range chained {
		weight := 1.0 / float64(cs.Depth+1)
		strengthSum += cs.Confidence * cs.Signal.Confidence * weight
		confidenceSum += cs.Confidence * weight
	}
	denom := float64(len(chained) + 1)

	return models.SignalChain{
		ID:              "chain_" + uuid.New().String(),
		EntityID:        entityID,
		RootSignal:      root,
		ChainedSignals:  chained,
		TotalConfidence: round(confidenceSum/denom, 4),
		ChainStrength:   round(strengthSum/denom, 4),
		DiscoveryPath:   path,
		DetectedAt:      detectedAt,
	}
}
