package server

import (
	"net/http"
	"strings"

	"github.com/fundingpath/signalchain/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Entity CRUD and per-entity analysis views
	mux.HandleFunc("/api/entities", s.handleEntitiesRoute)  // GET (list), POST (create)
	mux.HandleFunc("/api/entities/", s.handleEntityRoutes)  // GET/DELETE /{id}, GET /{id}/chains, GET /{id}/predictions

	// Population-level analysis
	mux.HandleFunc("/api/clusters", s.app.AnalysisHandler.GetClustersHandler)
	mux.HandleFunc("/api/analysis/reload", s.app.AnalysisHandler.ReloadHandler)

	// Service status
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)

	return mux
}

// handleEntitiesRoute dispatches /api/entities by method
func (s *Server) handleEntitiesRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.app.EntityHandler.ListEntitiesHandler(w, r)
	case http.MethodPost:
		s.app.EntityHandler.CreateEntityHandler(w, r)
	default:
		handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleEntityRoutes dispatches /api/entities/{id} and its subresources
func (s *Server) handleEntityRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/entities/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		handlers.WriteError(w, http.StatusBadRequest, "Entity ID required")
		return
	}
	entityID := parts[0]

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			s.app.EntityHandler.GetEntityHandler(w, r, entityID)
		case http.MethodDelete:
			s.app.EntityHandler.DeleteEntityHandler(w, r, entityID)
		default:
			handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case len(parts) == 2 && parts[1] == "chains" && r.Method == http.MethodGet:
		s.app.EntityHandler.GetChainsHandler(w, r, entityID)
	case len(parts) == 2 && parts[1] == "predictions" && r.Method == http.MethodGet:
		s.app.EntityHandler.GetPredictionsHandler(w, r, entityID)
	default:
		handlers.WriteError(w, http.StatusNotFound, "Not found")
	}
}
