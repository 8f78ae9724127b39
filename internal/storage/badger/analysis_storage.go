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

// chainRecord groups the detected chains for one entity under a single key
// so reload runs replace an entity's chains atomically.
type chainRecord struct {
	EntityID string `badgerhold:"key"`
	Chains   []models.SignalChain
	SavedAt  time.Time
}

// AnalysisStorage persists detected chains and cluster analysis runs
type AnalysisStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAnalysisStorage creates a new analysis storage instance
func NewAnalysisStorage(db *BadgerDB, logger arbor.ILogger) *AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

// SaveChains stores the detected chains for an entity, replacing any
// previous result
func (s *AnalysisStorage) SaveChains(ctx context.Context, entityID string, chains []models.SignalChain) error {
	if entityID == "" {
		return fmt.Errorf("entity ID cannot be empty")
	}

	record := chainRecord{
		EntityID: entityID,
		Chains:   chains,
		SavedAt:  time.Now(),
	}

	if err := s.db.Store().Upsert(entityID, &record); err != nil {
		return fmt.Errorf("failed to save chains for entity %s: %w", entityID, err)
	}

	s.logger.Debug().Str("entity_id", entityID).Int("chains", len(chains)).Msg("Chains saved")
	return nil
}

// GetChains retrieves the stored chains for an entity. Returns an empty
// slice when no detection run has been persisted for the entity.
func (s *AnalysisStorage) GetChains(ctx context.Context, entityID string) ([]models.SignalChain, error) {
	var record chainRecord
	if err := s.db.Store().Get(entityID, &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return []models.SignalChain{}, nil
		}
		return nil, fmt.Errorf("failed to get chains for entity %s: %w", entityID, err)
	}
	return record.Chains, nil
}

// DeleteChains removes the stored chains for an entity
func (s *AnalysisStorage) DeleteChains(ctx context.Context, entityID string) error {
	if err := s.db.Store().Delete(entityID, &chainRecord{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete chains for entity %s: %w", entityID, err)
	}
	return nil
}

// SaveClusterAnalysis stores a cluster analysis run
func (s *AnalysisStorage) SaveClusterAnalysis(ctx context.Context, analysis *models.ClusterAnalysis) error {
	if analysis.ID == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	if analysis.GeneratedAt.IsZero() {
		analysis.GeneratedAt = time.Now()
	}

	if err := s.db.Store().Upsert(analysis.ID, analysis); err != nil {
		return fmt.Errorf("failed to save cluster analysis %s: %w", analysis.ID, err)
	}

	s.logger.Debug().Str("analysis_id", analysis.ID).Int("clusters", len(analysis.Clusters)).Msg("Cluster analysis saved")
	return nil
}

// GetLatestClusterAnalysis returns the most recent cluster analysis run,
// nil when no run has been persisted yet
func (s *AnalysisStorage) GetLatestClusterAnalysis(ctx context.Context) (*models.ClusterAnalysis, error) {
	var analyses []*models.ClusterAnalysis
	query := badgerhold.Where(badgerhold.Key).Ne("").SortBy("GeneratedAt").Reverse().Limit(1)
	if err := s.db.Store().Find(&analyses, query); err != nil {
		return nil, fmt.Errorf("failed to query cluster analyses: %w", err)
	}
	if len(analyses) == 0 {
		return nil, nil
	}
	return analyses[0], nil
}
