package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/chains"
	"github.com/fundingpath/signalchain/internal/common"
	"github.com/fundingpath/signalchain/internal/interfaces"
	"github.com/fundingpath/signalchain/internal/models"
)

// Service owns the chain detection engine: it builds an immutable signal
// index from entity storage, runs detection, prediction, and clustering over
// it, and persists the derived outputs. Reload swaps in a fresh index and is
// the only operation that invalidates cached chains.
type Service struct {
	entityStorage   interfaces.EntityStorage
	analysisStorage interfaces.AnalysisStorage
	events          interfaces.EventService
	logger          arbor.ILogger

	cfg       chains.ChainConfig
	cacheSize int
	workers   int

	mu        sync.RWMutex
	builder   *chains.Builder
	analyzer  *chains.ClusterAnalyzer
	predictor *chains.Predictor
}

// NewService creates the analysis service. The engine starts on an empty
// index; call Reload to populate it from storage.
func NewService(storage interfaces.StorageManager, events interfaces.EventService, logger arbor.ILogger, engineCfg *common.EngineConfig) (*Service, error) {
	cfg, err := chainConfigFrom(engineCfg)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		entityStorage:   storage.EntityStorage(),
		analysisStorage: storage.AnalysisStorage(),
		events:          events,
		logger:          logger,
		cfg:             cfg,
		cacheSize:       engineCfg.CacheSize,
		workers:         engineCfg.Workers,
	}

	if err := svc.rebuild(nil); err != nil {
		return nil, err
	}
	return svc, nil
}

// chainConfigFrom converts the TOML engine section into an engine config,
// validating it up front so a bad config fails at startup rather than on the
// first request.
func chainConfigFrom(engineCfg *common.EngineConfig) (chains.ChainConfig, error) {
	cfg := chains.DefaultChainConfig()
	cfg.MaxDepth = engineCfg.MaxDepth
	cfg.MinConfidence = engineCfg.MinConfidence
	cfg.CorrelationThreshold = engineCfg.CorrelationThreshold

	if len(engineCfg.SignalTriggers) > 0 {
		triggers := make(map[models.SignalType][]models.SignalType, len(engineCfg.SignalTriggers))
		for from, tos := range engineCfg.SignalTriggers {
			fromType, err := models.ParseSignalType(from)
			if err != nil {
				return chains.ChainConfig{}, fmt.Errorf("signal_triggers: %w", err)
			}
			toTypes := make([]models.SignalType, 0, len(tos))
			for _, to := range tos {
				toType, err := models.ParseSignalType(to)
				if err != nil {
					return chains.ChainConfig{}, fmt.Errorf("signal_triggers[%s]: %w", from, err)
				}
				toTypes = append(toTypes, toType)
			}
			triggers[fromType] = toTypes
		}
		cfg.SignalTriggers = triggers
	}

	if err := cfg.Validate(); err != nil {
		return chains.ChainConfig{}, fmt.Errorf("invalid engine config: %w", err)
	}
	return cfg, nil
}

// rebuild constructs a fresh engine over the given entities and swaps it in
func (s *Service) rebuild(entities []*models.Entity) error {
	snapshot := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		snapshot = append(snapshot, *e)
	}

	index := chains.NewSignalIndex(snapshot)
	builder, err := chains.NewBuilder(index, s.cacheSize)
	if err != nil {
		return fmt.Errorf("failed to build chain engine: %w", err)
	}

	s.mu.Lock()
	s.builder = builder
	s.analyzer = chains.NewClusterAnalyzer(builder, s.workers)
	s.predictor = chains.NewPredictor(index)
	s.mu.Unlock()

	return nil
}

// Reload rebuilds the signal index from entity storage. Detection results
// cached against the previous index are dropped wholesale.
func (s *Service) Reload(ctx context.Context) error {
	entities, err := s.entityStorage.ListEntities(ctx)
	if err != nil {
		return fmt.Errorf("failed to load entities for reload: %w", err)
	}

	if err := s.rebuild(entities); err != nil {
		return err
	}

	s.logger.Info().Int("entities", len(entities)).Msg("Signal index reloaded")
	return nil
}

// EntityCount reports how many entities the current index holds
func (s *Service) EntityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builder.Index().Len()
}

// DetectSignalChains runs chain detection for one entity and persists the
// result. Unknown entities yield an empty slice.
func (s *Service) DetectSignalChains(ctx context.Context, entityID string) ([]models.SignalChain, error) {
	s.mu.RLock()
	builder := s.builder
	cfg := s.cfg
	s.mu.RUnlock()

	detected, err := builder.DetectSignalChains(ctx, entityID, cfg)
	if err != nil {
		return nil, err
	}

	if len(detected) > 0 {
		if err := s.analysisStorage.SaveChains(ctx, entityID, detected); err != nil {
			s.logger.Warn().Err(err).Str("entity_id", entityID).Msg("Failed to persist detected chains")
		}
		if s.events != nil {
			s.events.Publish(ctx, interfaces.Event{
				Type:     interfaces.EventChainsDetected,
				EntityID: entityID,
				Payload:  map[string]interface{}{"chains": len(detected)},
			})
		}
	}

	return detected, nil
}

// PredictNextSignals ranks signal types the entity is likely to develop next
func (s *Service) PredictNextSignals(ctx context.Context, entityID string) ([]models.SignalPrediction, error) {
	s.mu.RLock()
	predictor := s.predictor
	cfg := s.cfg
	s.mu.RUnlock()

	return predictor.PredictNextSignals(ctx, entityID, cfg)
}

// AnalyzeSignalClusters recomputes cluster analysis across the whole
// population and persists the run
func (s *Service) AnalyzeSignalClusters(ctx context.Context) (*models.ClusterAnalysis, error) {
	s.mu.RLock()
	analyzer := s.analyzer
	cfg := s.cfg
	s.mu.RUnlock()

	result, err := analyzer.AnalyzeSignalClusters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := s.analysisStorage.SaveClusterAnalysis(ctx, &result); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist cluster analysis")
	}
	if s.events != nil {
		s.events.Publish(ctx, interfaces.Event{
			Type: interfaces.EventClustersRefreshed,
			Payload: map[string]interface{}{
				"clusters": len(result.Clusters),
				"chains":   result.ChainCount,
			},
		})
	}

	return &result, nil
}

// LatestClusterAnalysis returns the most recent persisted analysis, nil when
// no run has completed yet
func (s *Service) LatestClusterAnalysis(ctx context.Context) (*models.ClusterAnalysis, error) {
	return s.analysisStorage.GetLatestClusterAnalysis(ctx)
}
