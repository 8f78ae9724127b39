package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/interfaces"
	"github.com/fundingpath/signalchain/internal/models"
)

// EntityHandler handles HTTP requests for entities and their per-entity
// analysis views (chains, predictions)
type EntityHandler struct {
	entityService   interfaces.EntityService
	analysisService interfaces.AnalysisService
	logger          arbor.ILogger
}

// NewEntityHandler creates a new EntityHandler
func NewEntityHandler(entityService interfaces.EntityService, analysisService interfaces.AnalysisService, logger arbor.ILogger) *EntityHandler {
	return &EntityHandler{
		entityService:   entityService,
		analysisService: analysisService,
		logger:          logger,
	}
}

// ListEntitiesHandler handles GET /api/entities
func (h *EntityHandler) ListEntitiesHandler(w http.ResponseWriter, r *http.Request) {
	entities, err := h.entityService.ListEntities(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list entities")
		WriteError(w, http.StatusInternalServerError, "Failed to list entities")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entities": entities,
		"count":    len(entities),
	})
}

// CreateEntityHandler handles POST /api/entities. The new entity is not
// visible to analysis until the next index reload.
func (h *EntityHandler) CreateEntityHandler(w http.ResponseWriter, r *http.Request) {
	var entity models.Entity
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.entityService.SaveEntity(r.Context(), &entity); err != nil {
		h.logger.Warn().Err(err).Msg("Entity rejected")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, entity)
}

// GetEntityHandler handles GET /api/entities/{id}
func (h *EntityHandler) GetEntityHandler(w http.ResponseWriter, r *http.Request, entityID string) {
	entity, err := h.entityService.GetEntity(r.Context(), entityID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, "Entity not found: "+entityID)
			return
		}
		h.logger.Error().Err(err).Str("entity_id", entityID).Msg("Failed to get entity")
		WriteError(w, http.StatusInternalServerError, "Failed to get entity")
		return
	}

	WriteJSON(w, http.StatusOK, entity)
}

// DeleteEntityHandler handles DELETE /api/entities/{id}
func (h *EntityHandler) DeleteEntityHandler(w http.ResponseWriter, r *http.Request, entityID string) {
	if err := h.entityService.DeleteEntity(r.Context(), entityID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, http.StatusNotFound, "Entity not found: "+entityID)
			return
		}
		h.logger.Error().Err(err).Str("entity_id", entityID).Msg("Failed to delete entity")
		WriteError(w, http.StatusInternalServerError, "Failed to delete entity")
		return
	}

	WriteSuccess(w, "Entity deleted: "+entityID)
}

// GetChainsHandler handles GET /api/entities/{id}/chains. Entities absent
// from the current index yield an empty result rather than 404 so brokers
// can poll before a reload lands.
func (h *EntityHandler) GetChainsHandler(w http.ResponseWriter, r *http.Request, entityID string) {
	chains, err := h.analysisService.DetectSignalChains(r.Context(), entityID)
	if err != nil {
		h.logger.Error().Err(err).Str("entity_id", entityID).Msg("Chain detection failed")
		WriteError(w, http.StatusInternalServerError, "Chain detection failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entity_id": entityID,
		"chains":    chains,
		"count":     len(chains),
	})
}

// GetPredictionsHandler handles GET /api/entities/{id}/predictions
func (h *EntityHandler) GetPredictionsHandler(w http.ResponseWriter, r *http.Request, entityID string) {
	predictions, err := h.analysisService.PredictNextSignals(r.Context(), entityID)
	if err != nil {
		h.logger.Error().Err(err).Str("entity_id", entityID).Msg("Prediction failed")
		WriteError(w, http.StatusInternalServerError, "Prediction failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entity_id":   entityID,
		"predictions": predictions,
		"count":       len(predictions),
	})
}
