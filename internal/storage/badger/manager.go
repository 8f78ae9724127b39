package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/common"
	"github.com/fundingpath/signalchain/internal/interfaces"
)

// Manager implements interfaces.StorageManager backed by Badger
type Manager struct {
	db       *BadgerDB
	entities *EntityStorage
	analysis *AnalysisStorage
	logger   arbor.ILogger
}

// NewManager creates a storage manager with all typed stores initialized
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize badger: %w", err)
	}

	return &Manager{
		db:       db,
		entities: NewEntityStorage(db, logger),
		analysis: NewAnalysisStorage(db, logger),
		logger:   logger,
	}, nil
}

func (m *Manager) EntityStorage() interfaces.EntityStorage {
	return m.entities
}

func (m *Manager) AnalysisStorage() interfaces.AnalysisStorage {
	return m.analysis
}

// RunGC compacts the value log, called after scheduled refresh runs
func (m *Manager) RunGC() error {
	return m.db.RunGC()
}

func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing storage manager")
	return m.db.Close()
}
