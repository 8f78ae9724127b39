package chains

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/fundingpath/signalchain/internal/models"
)

// ClusterAnalyzer groups chains across the whole population by the multiset
// of signal types each chain contains. Entity computations are independent
// and side-effect-free, so they run on a bounded worker pool with per-entity
// task granularity.
type ClusterAnalyzer struct {
	builder *Builder
	workers int
}

// NewClusterAnalyzer creates an analyzer over a chain builder. workers <= 0
// selects one worker per CPU.
func NewClusterAnalyzer(builder *Builder, workers int) *ClusterAnalyzer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ClusterAnalyzer{builder: builder, workers: workers}
}

type entityChains struct {
	entityID string
	chains   []models.SignalChain
}

// AnalyzeSignalClusters computes chains for every indexed entity (reusing the
// builder's cache) and groups them by signal-type shape. Entities with no
// qualifying chains contribute nothing; clustering is chain-derived, never
// raw-signal-derived. The context cancels the run between entities.
func (a *ClusterAnalyzer) AnalyzeSignalClusters(ctx context.Context, cfg ChainConfig) (models.ClusterAnalysis, error) {
	if err := cfg.Validate(); err != nil {
		return models.ClusterAnalysis{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ids := a.builder.Index().EntityIDs()
	jobs := make(chan string)
	results := make(chan entityChains, len(ids))
	errs := make(chan error, a.workers)

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				chains, err := a.builder.DetectSignalChains(ctx, id, cfg)
				if err != nil {
					errs <- err
					cancel()
					return
				}
				results <- entityChains{entityID: id, chains: chains}
			}
		}()
	}

feed:
	for _, id := range ids {
		select {
		case jobs <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	close(errs)

	if err := <-errs; err != nil {
		return models.ClusterAnalysis{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.ClusterAnalysis{}, err
	}

	return aggregate(results), nil
}

func aggregate(results <-chan entityChains) models.ClusterAnalysis {
	clusters := make(map[string][]string)
	clusterSeen := make(map[string]map[string]bool)
	confidences := make(map[string][]float64)
	frequencies := make(map[string]int)
	entityCount := 0
	chainCount := 0

	byEntity := make([]entityChains, 0)
	for r := range results {
		byEntity = append(byEntity, r)
	}
	// Restore snapshot order so output is deterministic regardless of which
	// worker finished first
	sort.SliceStable(byEntity, func(i, j int) bool {
		return byEntity[i].entityID < byEntity[j].entityID
	})

	for _, r := range byEntity {
		if len(r.chains) > 0 {
			entityCount++
		}
		for _, chain := range r.chains {
			chainCount++
			key := chain.SignalTypeKey()
			frequencies[key]++
			confidences[key] = append(confidences[key], chain.TotalConfidence)
			if clusterSeen[key] == nil {
				clusterSeen[key] = make(map[string]bool)
			}
			if !clusterSeen[key][r.entityID] {
				clusterSeen[key][r.entityID] = true
				clusters[key] = append(clusters[key], r.entityID)
			}
		}
	}

	patterns := make([]models.SignalPattern, 0, len(frequencies))
	for key, freq := range frequencies {
		parts := strings.Split(key, "+")
		combination := make([]models.SignalType, len(parts))
		for i, p := range parts {
			combination[i] = models.SignalType(p)
		}
		patterns = append(patterns, models.SignalPattern{
			SignalCombination: combination,
			Frequency:         freq,
			AvgConfidence:     round(stat.Mean(confidences[key], nil), 4),
			Entities:          clusters[key],
		})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Frequency != patterns[j].Frequency {
			return patterns[i].Frequency > patterns[j].Frequency
		}
		return strings.Join(typeStrings(patterns[i].SignalCombination), "+") <
			strings.Join(typeStrings(patterns[j].SignalCombination), "+")
	})

	return models.ClusterAnalysis{
		ID:          "cluster_" + uuid.New().String(),
		Clusters:    clusters,
		Patterns:    patterns,
		EntityCount: entityCount,
		ChainCount:  chainCount,
		GeneratedAt: time.Now().UTC(),
	}
}

func typeStrings(types []models.SignalType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
