package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/fundingpath/signalchain/internal/models"
)

func TestGetClustersHandlerReturnsLatest(t *testing.T) {
	analysisSvc := newMockAnalysisService()
	analysisSvc.latest = &models.ClusterAnalysis{ID: "cluster_persisted", GeneratedAt: time.Now()}
	h := NewAnalysisHandler(analysisSvc, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetClustersHandler(rec, httptest.NewRequest("GET", "/api/clusters", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body models.ClusterAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cluster_persisted", body.ID)
}

func TestGetClustersHandlerComputesWhenNoneExists(t *testing.T) {
	h := NewAnalysisHandler(newMockAnalysisService(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetClustersHandler(rec, httptest.NewRequest("GET", "/api/clusters", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body models.ClusterAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cluster_fresh", body.ID)
}

func TestGetClustersHandlerRefreshRecomputes(t *testing.T) {
	analysisSvc := newMockAnalysisService()
	analysisSvc.latest = &models.ClusterAnalysis{ID: "cluster_persisted", GeneratedAt: time.Now()}
	h := NewAnalysisHandler(analysisSvc, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetClustersHandler(rec, httptest.NewRequest("GET", "/api/clusters?refresh=true", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body models.ClusterAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cluster_fresh", body.ID)
}

func TestGetClustersHandlerRejectsPost(t *testing.T) {
	h := NewAnalysisHandler(newMockAnalysisService(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetClustersHandler(rec, httptest.NewRequest("POST", "/api/clusters", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReloadHandler(t *testing.T) {
	analysisSvc := newMockAnalysisService()
	h := NewAnalysisHandler(analysisSvc, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.ReloadHandler(rec, httptest.NewRequest("POST", "/api/analysis/reload", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, analysisSvc.reloads)
}

func TestReloadHandlerFailure(t *testing.T) {
	analysisSvc := newMockAnalysisService()
	analysisSvc.reloadErr = errors.New("storage offline")
	h := NewAnalysisHandler(analysisSvc, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.ReloadHandler(rec, httptest.NewRequest("POST", "/api/analysis/reload", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusHandler(t *testing.T) {
	h := NewStatusHandler(newMockAnalysisService(), nil, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetStatusHandler(rec, httptest.NewRequest("GET", "/api/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signalchain", body["service"])
}
