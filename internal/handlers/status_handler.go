package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/common"
	"github.com/fundingpath/signalchain/internal/interfaces"
)

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	analysisService interfaces.AnalysisService
	scheduler       interfaces.SchedulerService
	startTime       time.Time
	logger          arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(analysisService interfaces.AnalysisService, scheduler interfaces.SchedulerService, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		analysisService: analysisService,
		scheduler:       scheduler,
		startTime:       time.Now(),
		logger:          logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := map[string]interface{}{
		"service":  "signalchain",
		"version":  common.GetVersion(),
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
		"entities": h.analysisService.EntityCount(),
	}
	if h.scheduler != nil {
		status["scheduler_running"] = h.scheduler.IsRunning()
	}

	WriteJSON(w, http.StatusOK, status)
}
