package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/models"
)

type mockEntityService struct {
	entities map[string]*models.Entity
	saveErr  error
}

func newMockEntityService() *mockEntityService {
	return &mockEntityService{entities: make(map[string]*models.Entity)}
}

func (m *mockEntityService) SaveEntity(ctx context.Context, entity *models.Entity) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if entity.ID == "" {
		entity.ID = "ent_generated"
	}
	m.entities[entity.ID] = entity
	return nil
}

func (m *mockEntityService) GetEntity(ctx context.Context, id string) (*models.Entity, error) {
	entity, ok := m.entities[id]
	if !ok {
		return nil, fmt.Errorf("entity not found: %s", id)
	}
	return entity, nil
}

func (m *mockEntityService) ListEntities(ctx context.Context) ([]*models.Entity, error) {
	out := make([]*models.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEntityService) DeleteEntity(ctx context.Context, id string) error {
	if _, ok := m.entities[id]; !ok {
		return fmt.Errorf("entity not found: %s", id)
	}
	delete(m.entities, id)
	return nil
}

func (m *mockEntityService) LoadSnapshotDir(ctx context.Context, dir string) (int, error) {
	return 0, nil
}

type mockAnalysisService struct {
	chains      map[string][]models.SignalChain
	predictions map[string][]models.SignalPrediction
	latest      *models.ClusterAnalysis
	reloadErr   error
	reloads     int
}

func newMockAnalysisService() *mockAnalysisService {
	return &mockAnalysisService{
		chains:      make(map[string][]models.SignalChain),
		predictions: make(map[string][]models.SignalPrediction),
	}
}

func (m *mockAnalysisService) DetectSignalChains(ctx context.Context, entityID string) ([]models.SignalChain, error) {
	return m.chains[entityID], nil
}

func (m *mockAnalysisService) PredictNextSignals(ctx context.Context, entityID string) ([]models.SignalPrediction, error) {
	return m.predictions[entityID], nil
}

func (m *mockAnalysisService) AnalyzeSignalClusters(ctx context.Context) (*models.ClusterAnalysis, error) {
	analysis := &models.ClusterAnalysis{ID: "cluster_fresh", GeneratedAt: time.Now()}
	m.latest = analysis
	return analysis, nil
}

func (m *mockAnalysisService) LatestClusterAnalysis(ctx context.Context) (*models.ClusterAnalysis, error) {
	return m.latest, nil
}

func (m *mockAnalysisService) Reload(ctx context.Context) error {
	m.reloads++
	return m.reloadErr
}

func (m *mockAnalysisService) EntityCount() int {
	return len(m.chains)
}

func TestListEntitiesHandler(t *testing.T) {
	entitySvc := newMockEntityService()
	entitySvc.entities["ent-1"] = &models.Entity{ID: "ent-1", Name: "Acme"}
	h := NewEntityHandler(entitySvc, newMockAnalysisService(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.ListEntitiesHandler(rec, httptest.NewRequest("GET", "/api/entities", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])
}

func TestCreateEntityHandler(t *testing.T) {
	entitySvc := newMockEntityService()
	h := NewEntityHandler(entitySvc, newMockAnalysisService(), arbor.NewLogger())

	payload := `{"name":"Acme Plumbing","growth_signals":[{"id":"sig-1","type":"hiring","confidence":0.8,"detected_date":"2025-03-01T00:00:00Z"}]}`
	rec := httptest.NewRecorder()
	h.CreateEntityHandler(rec, httptest.NewRequest("POST", "/api/entities", strings.NewReader(payload)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, entitySvc.entities, 1)
}

func TestCreateEntityHandlerRejectsBadJSON(t *testing.T) {
	h := NewEntityHandler(newMockEntityService(), newMockAnalysisService(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.CreateEntityHandler(rec, httptest.NewRequest("POST", "/api/entities", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEntityHandlerNotFound(t *testing.T) {
	h := NewEntityHandler(newMockEntityService(), newMockAnalysisService(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetEntityHandler(rec, httptest.NewRequest("GET", "/api/entities/ent-missing", nil), "ent-missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetChainsHandlerUnknownEntityIsEmpty(t *testing.T) {
	h := NewEntityHandler(newMockEntityService(), newMockAnalysisService(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetChainsHandler(rec, httptest.NewRequest("GET", "/api/entities/ent-missing/chains", nil), "ent-missing")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["count"])
}

func TestGetChainsHandler(t *testing.T) {
	analysisSvc := newMockAnalysisService()
	analysisSvc.chains["ent-1"] = []models.SignalChain{{ID: "chain_1", EntityID: "ent-1", ChainStrength: 0.6}}
	h := NewEntityHandler(newMockEntityService(), analysisSvc, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetChainsHandler(rec, httptest.NewRequest("GET", "/api/entities/ent-1/chains", nil), "ent-1")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "ent-1", body["entity_id"])
}

func TestGetPredictionsHandler(t *testing.T) {
	analysisSvc := newMockAnalysisService()
	analysisSvc.predictions["ent-1"] = []models.SignalPrediction{
		{SignalType: models.SignalTypeEquipment, Probability: 0.41},
	}
	h := NewEntityHandler(newMockEntityService(), analysisSvc, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetPredictionsHandler(rec, httptest.NewRequest("GET", "/api/entities/ent-1/predictions", nil), "ent-1")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])
}

func TestDeleteEntityHandler(t *testing.T) {
	entitySvc := newMockEntityService()
	entitySvc.entities["ent-1"] = &models.Entity{ID: "ent-1"}
	h := NewEntityHandler(entitySvc, newMockAnalysisService(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.DeleteEntityHandler(rec, httptest.NewRequest("DELETE", "/api/entities/ent-1", nil), "ent-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, entitySvc.entities)
}
