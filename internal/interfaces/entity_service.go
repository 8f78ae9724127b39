package interfaces

import (
	"context"

	"github.com/fundingpath/signalchain/internal/models"
)

// EntityService manages the entity snapshot the engine computes over
type EntityService interface {
	SaveEntity(ctx context.Context, entity *models.Entity) error
	GetEntity(ctx context.Context, id string) (*models.Entity, error)
	ListEntities(ctx context.Context) ([]*models.Entity, error)
	DeleteEntity(ctx context.Context, id string) error

	// LoadSnapshotDir loads YAML entity snapshot files from a directory,
	// returning the number of entities loaded
	LoadSnapshotDir(ctx context.Context, dir string) (int, error)
}
