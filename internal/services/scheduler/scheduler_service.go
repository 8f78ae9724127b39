package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/interfaces"
)

// Service implements SchedulerService. It periodically reloads the signal
// index from storage and refreshes cluster analysis so long-running
// deployments pick up snapshot changes without a restart.
type Service struct {
	analysis interfaces.AnalysisService
	cron     *cron.Cron
	schedule string
	logger   arbor.ILogger

	mu      sync.Mutex
	running bool
}

// NewService creates a scheduler that refreshes on the given cron schedule.
// An empty schedule disables scheduling; Start becomes a no-op.
func NewService(analysis interfaces.AnalysisService, schedule string, logger arbor.ILogger) interfaces.SchedulerService {
	return &Service{
		analysis: analysis,
		cron:     cron.New(),
		schedule: schedule,
		logger:   logger,
	}
}

// Start begins periodic refresh runs
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info().Msg("Refresh scheduler disabled (no schedule configured)")
		return nil
	}
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.refresh); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Str("schedule", s.schedule).Msg("Refresh scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for an in-flight refresh to finish
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		s.logger.Warn().Msg("Timed out waiting for refresh job to finish")
	}

	s.running = false
	s.logger.Info().Msg("Refresh scheduler stopped")
}

// IsRunning reports whether the scheduler is active
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()

	if err := s.analysis.Reload(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled index reload failed")
		return
	}

	if _, err := s.analysis.AnalyzeSignalClusters(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled cluster refresh failed")
		return
	}

	s.logger.Info().
		Int("entities", s.analysis.EntityCount()).
		Str("duration", time.Since(start).String()).
		Msg("Scheduled refresh completed")
}
