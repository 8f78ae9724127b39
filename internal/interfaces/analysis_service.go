package interfaces

import (
	"context"

	"github.com/fundingpath/signalchain/internal/models"
)

// AnalysisService exposes the chain detection engine to transports.
// All operations are lenient on unknown entity ids (empty results, no error).
type AnalysisService interface {
	// DetectSignalChains returns chains for one entity, strongest first
	DetectSignalChains(ctx context.Context, entityID string) ([]models.SignalChain, error)

	// PredictNextSignals ranks signal types the entity is likely to develop
	PredictNextSignals(ctx context.Context, entityID string) ([]models.SignalPrediction, error)

	// AnalyzeSignalClusters recomputes cluster analysis across the population
	AnalyzeSignalClusters(ctx context.Context) (*models.ClusterAnalysis, error)

	// LatestClusterAnalysis returns the most recent persisted analysis,
	// nil when none has been computed yet
	LatestClusterAnalysis(ctx context.Context) (*models.ClusterAnalysis, error)

	// Reload rebuilds the signal index from storage and drops stale cached
	// chains; the explicit invalidation operation
	Reload(ctx context.Context) error

	// EntityCount reports how many entities the current index holds
	EntityCount() int
}
