package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/interfaces"
)

// AnalysisHandler handles HTTP requests for population-level analysis
type AnalysisHandler struct {
	analysisService interfaces.AnalysisService
	logger          arbor.ILogger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService interfaces.AnalysisService, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		logger:          logger,
	}
}

// GetClustersHandler handles GET /api/clusters. Returns the latest persisted
// cluster analysis; ?refresh=true (or no prior run) recomputes first.
func (h *AnalysisHandler) GetClustersHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"

	analysis, err := h.analysisService.LatestClusterAnalysis(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load cluster analysis")
		WriteError(w, http.StatusInternalServerError, "Failed to load cluster analysis")
		return
	}

	if refresh || analysis == nil {
		analysis, err = h.analysisService.AnalyzeSignalClusters(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("Cluster analysis failed")
			WriteError(w, http.StatusInternalServerError, "Cluster analysis failed")
			return
		}
	}

	WriteJSON(w, http.StatusOK, analysis)
}

// ReloadHandler handles POST /api/analysis/reload. Rebuilds the signal index
// from storage and drops cached detection results.
func (h *AnalysisHandler) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := h.analysisService.Reload(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Index reload failed")
		WriteError(w, http.StatusInternalServerError, "Index reload failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"entities": h.analysisService.EntityCount(),
	})
}
