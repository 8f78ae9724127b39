package interfaces

import (
	"context"

	"github.com/fundingpath/signalchain/internal/models"
)

// EntityStorage persists entity snapshots (entities plus their growth signals)
type EntityStorage interface {
	SaveEntity(ctx context.Context, entity *models.Entity) error
	GetEntity(ctx context.Context, id string) (*models.Entity, error)
	ListEntities(ctx context.Context) ([]*models.Entity, error)
	DeleteEntity(ctx context.Context, id string) error
	CountEntities(ctx context.Context) (int, error)
}

// AnalysisStorage persists derived analysis outputs: detected chains per
// entity and cluster analysis runs
type AnalysisStorage interface {
	SaveChains(ctx context.Context, entityID string, chains []models.SignalChain) error
	GetChains(ctx context.Context, entityID string) ([]models.SignalChain, error)
	DeleteChains(ctx context.Context, entityID string) error
	SaveClusterAnalysis(ctx context.Context, analysis *models.ClusterAnalysis) error
	GetLatestClusterAnalysis(ctx context.Context) (*models.ClusterAnalysis, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	EntityStorage() EntityStorage
	AnalysisStorage() AnalysisStorage
	RunGC() error
	Close() error
}
