package entities

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/fundingpath/signalchain/internal/common"
	"github.com/fundingpath/signalchain/internal/interfaces"
	"github.com/fundingpath/signalchain/internal/models"
)

// snapshotFile is the on-disk YAML layout for entity snapshots. A file
// holds one or more entities with their observed growth signals.
type snapshotFile struct {
	Entities []models.Entity `yaml:"entities"`
}

// Service implements EntityService on top of entity storage
type Service struct {
	storage  interfaces.EntityStorage
	events   interfaces.EventService
	logger   arbor.ILogger
	validate *validator.Validate
}

// NewService creates a new entity service
func NewService(storage interfaces.EntityStorage, events interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		storage:  storage,
		events:   events,
		logger:   logger,
		validate: validator.New(),
	}
}

// SaveEntity validates and persists an entity
func (s *Service) SaveEntity(ctx context.Context, entity *models.Entity) error {
	if entity.ID == "" {
		entity.ID = common.NewEntityID()
	}
	for i := range entity.Signals {
		if entity.Signals[i].ID == "" {
			entity.Signals[i].ID = common.NewSignalID()
		}
	}

	if err := s.validateEntity(entity); err != nil {
		return err
	}

	return s.storage.SaveEntity(ctx, entity)
}

// GetEntity retrieves an entity by ID
func (s *Service) GetEntity(ctx context.Context, id string) (*models.Entity, error) {
	return s.storage.GetEntity(ctx, id)
}

// ListEntities returns all stored entities
func (s *Service) ListEntities(ctx context.Context) ([]*models.Entity, error) {
	return s.storage.ListEntities(ctx)
}

// DeleteEntity removes an entity by ID
func (s *Service) DeleteEntity(ctx context.Context, id string) error {
	return s.storage.DeleteEntity(ctx, id)
}

// LoadSnapshotDir loads every .yaml/.yml snapshot file in dir into storage
// and returns the number of entities loaded. A missing directory is not an
// error so fresh deployments can start with an empty index.
func (s *Service) LoadSnapshotDir(ctx context.Context, dir string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		s.logger.Warn().Str("dir", dir).Msg("Snapshot directory does not exist, skipping load")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat snapshot directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("snapshot path is not a directory: %s", dir)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot directory %s: %w", dir, err)
	}

	loaded := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, file.Name())
		count, err := s.loadSnapshotFile(ctx, path)
		if err != nil {
			return loaded, fmt.Errorf("failed to load snapshot %s: %w", file.Name(), err)
		}
		loaded += count
	}

	s.logger.Info().Str("dir", dir).Int("entities", loaded).Msg("Entity snapshots loaded")

	if s.events != nil && loaded > 0 {
		s.events.Publish(ctx, interfaces.Event{
			Type:    interfaces.EventSnapshotLoaded,
			Payload: map[string]interface{}{"entities": loaded, "dir": dir},
		})
	}

	return loaded, nil
}

func (s *Service) loadSnapshotFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var snapshot snapshotFile
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return 0, fmt.Errorf("invalid YAML: %w", err)
	}

	for i := range snapshot.Entities {
		entity := &snapshot.Entities[i]
		if err := s.SaveEntity(ctx, entity); err != nil {
			return i, fmt.Errorf("entity %q: %w", entity.Name, err)
		}
	}

	return len(snapshot.Entities), nil
}

func (s *Service) validateEntity(entity *models.Entity) error {
	if err := s.validate.Struct(entity); err != nil {
		return fmt.Errorf("entity validation failed: %w", err)
	}
	for _, sig := range entity.Signals {
		if !sig.Type.IsValid() {
			return fmt.Errorf("entity %s: unknown signal type %q", entity.ID, sig.Type)
		}
	}
	return nil
}
