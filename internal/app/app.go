package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/common"
	"github.com/fundingpath/signalchain/internal/handlers"
	"github.com/fundingpath/signalchain/internal/interfaces"
	"github.com/fundingpath/signalchain/internal/services/analysis"
	"github.com/fundingpath/signalchain/internal/services/entities"
	"github.com/fundingpath/signalchain/internal/services/events"
	"github.com/fundingpath/signalchain/internal/services/scheduler"
	"github.com/fundingpath/signalchain/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	EventService     interfaces.EventService
	EntityService    interfaces.EntityService
	AnalysisService  interfaces.AnalysisService
	SchedulerService interfaces.SchedulerService

	// HTTP handlers
	EntityHandler   *handlers.EntityHandler
	AnalysisHandler *handlers.AnalysisHandler
	StatusHandler   *handlers.StatusHandler
}

// New wires up storage, services, and handlers from config. The signal
// index is populated from the snapshot directory before this returns so
// the first request sees a ready engine.
func New(ctx context.Context, config *common.Config, logger arbor.ILogger) (*App, error) {
	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	eventService := events.NewService(logger)
	entityService := entities.NewService(storageManager.EntityStorage(), eventService, logger)

	analysisService, err := analysis.NewService(storageManager, eventService, logger, &config.Engine)
	if err != nil {
		storageManager.Close()
		return nil, err
	}

	a := &App{
		Config:          config,
		Logger:          logger,
		StorageManager:  storageManager,
		EventService:    eventService,
		EntityService:   entityService,
		AnalysisService: analysisService,
	}

	// Snapshot changes are folded into the index on the next reload
	eventService.Subscribe(interfaces.EventSnapshotLoaded, func(ctx context.Context, e interfaces.Event) {
		if err := analysisService.Reload(ctx); err != nil {
			logger.Error().Err(err).Msg("Index reload after snapshot load failed")
		}
	})

	// Cluster refreshes rewrite whole analysis records, so compact afterwards
	eventService.Subscribe(interfaces.EventClustersRefreshed, func(ctx context.Context, e interfaces.Event) {
		if err := storageManager.RunGC(); err != nil {
			logger.Warn().Err(err).Msg("Storage GC failed")
		}
	})

	if config.Entities.SnapshotDir != "" {
		if _, err := entityService.LoadSnapshotDir(ctx, config.Entities.SnapshotDir); err != nil {
			storageManager.Close()
			return nil, fmt.Errorf("failed to load entity snapshots: %w", err)
		}
	}
	if err := analysisService.Reload(ctx); err != nil {
		storageManager.Close()
		return nil, err
	}

	a.SchedulerService = scheduler.NewService(analysisService, config.Engine.RefreshSchedule, logger)

	a.EntityHandler = handlers.NewEntityHandler(entityService, analysisService, logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(analysisService, logger)
	a.StatusHandler = handlers.NewStatusHandler(analysisService, a.SchedulerService, logger)

	return a, nil
}

// Close releases application resources
func (a *App) Close() error {
	if a.SchedulerService != nil && a.SchedulerService.IsRunning() {
		a.SchedulerService.Stop()
	}
	if a.StorageManager != nil {
		return a.StorageManager.Close()
	}
	return nil
}
