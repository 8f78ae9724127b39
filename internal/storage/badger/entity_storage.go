package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/fundingpath/signalchain/internal/models"
)

// EntityStorage persists entities and their growth signals in Badger
type EntityStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEntityStorage creates a new entity storage instance
func NewEntityStorage(db *BadgerDB, logger arbor.ILogger) *EntityStorage {
	return &EntityStorage{
		db:     db,
		logger: logger,
	}
}

// SaveEntity stores or updates an entity
func (s *EntityStorage) SaveEntity(ctx context.Context, entity *models.Entity) error {
	if entity.ID == "" {
		return fmt.Errorf("entity ID cannot be empty")
	}

	now := time.Now()
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = now
	}
	entity.UpdatedAt = now

	if err := s.db.Store().Upsert(entity.ID, entity); err != nil {
		return fmt.Errorf("failed to save entity %s: %w", entity.ID, err)
	}

	s.logger.Debug().Str("entity_id", entity.ID).Int("signals", len(entity.Signals)).Msg("Entity saved")
	return nil
}

// GetEntity retrieves an entity by ID
func (s *EntityStorage) GetEntity(ctx context.Context, id string) (*models.Entity, error) {
	var entity models.Entity
	if err := s.db.Store().Get(id, &entity); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("entity not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get entity %s: %w", id, err)
	}
	return &entity, nil
}

// ListEntities returns all stored entities
func (s *EntityStorage) ListEntities(ctx context.Context) ([]*models.Entity, error) {
	var entities []*models.Entity
	if err := s.db.Store().Find(&entities, nil); err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, nil
}

// DeleteEntity removes an entity by ID
func (s *EntityStorage) DeleteEntity(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.Entity{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return fmt.Errorf("entity not found: %s", id)
		}
		return fmt.Errorf("failed to delete entity %s: %w", id, err)
	}

	s.logger.Debug().Str("entity_id", id).Msg("Entity deleted")
	return nil
}

// CountEntities returns the number of stored entities
func (s *EntityStorage) CountEntities(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Entity{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return int(count), nil
}
