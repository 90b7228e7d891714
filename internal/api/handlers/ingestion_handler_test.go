package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nghiack7/data-ingestion-service/internal/api"
	"github.com/nghiack7/data-ingestion-service/internal/domain/models"
	"github.com/nghiack7/data-ingestion-service/internal/processor"
	"github.com/nghiack7/data-ingestion-service/internal/service"
	"github.com/nghiack7/data-ingestion-service/internal/storage/memory"
	"github.com/nghiack7/data-ingestion-service/pkg/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.MemoryRepository) {
	t.Helper()

	repo := memory.NewMemoryRepository()
	queue := processor.NewPriorityQueue(processor.DefaultQueueOptions())
	svc := service.NewIngestionService(repo, repo, queue, nil, 3, time.Minute)

	router := api.NewRouter(svc, nil, logger.NewNopLogger())
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, repo
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	res, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return res
}

func TestSubmitEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	res := postJSON(t, server.URL+"/ingest", map[string]interface{}{
		"ids":      []int64{1, 2, 3, 4, 5},
		"priority": "HIGH",
	})
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		IngestionID string `json:"ingestion_id"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.NotEmpty(t, body.IngestionID)
}

func TestSubmitEndpoint_Validation(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
	}{
		{
			name:       "missing ids",
			payload:    map[string]interface{}{"priority": "HIGH"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty ids",
			payload:    map[string]interface{}{"ids": []int64{}, "priority": "HIGH"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "identifier below range",
			payload:    map[string]interface{}{"ids": []int64{0}, "priority": "HIGH"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "identifier above range",
			payload:    map[string]interface{}{"ids": []int64{1_000_000_008}, "priority": "HIGH"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown priority",
			payload:    map[string]interface{}{"ids": []int64{1}, "priority": "URGENT"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing priority",
			payload:    map[string]interface{}{"ids": []int64{1}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := postJSON(t, server.URL+"/ingest", tt.payload)
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatus, res.StatusCode)
		})
	}
}

func TestSubmitEndpoint_MalformedBody(t *testing.T) {
	server, _ := newTestServer(t)

	res, err := http.Post(server.URL+"/ingest", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestStatusEndpoint(t *testing.T) {
	server, repo := newTestServer(t)

	res := postJSON(t, server.URL+"/ingest", map[string]interface{}{
		"ids":      []int64{1, 2, 3, 4},
		"priority": "MEDIUM",
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var created struct {
		IngestionID string `json:"ingestion_id"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))

	statusRes, err := http.Get(server.URL + "/status/" + created.IngestionID)
	require.NoError(t, err)
	defer statusRes.Body.Close()
	require.Equal(t, http.StatusOK, statusRes.StatusCode)

	var status struct {
		IngestionID string `json:"ingestion_id"`
		Status      string `json:"status"`
		Priority    string `json:"priority"`
		Batches     []struct {
			BatchID string  `json:"batch_id"`
			IDs     []int64 `json:"ids"`
			Status  string  `json:"status"`
		} `json:"batches"`
	}
	require.NoError(t, json.NewDecoder(statusRes.Body).Decode(&status))

	assert.Equal(t, created.IngestionID, status.IngestionID)
	assert.Equal(t, "yet_to_start", status.Status)
	assert.Equal(t, "MEDIUM", status.Priority)
	require.Len(t, status.Batches, 2)
	assert.Equal(t, []int64{1, 2, 3}, status.Batches[0].IDs)
	assert.Equal(t, []int64{4}, status.Batches[1].IDs)
	for _, b := range status.Batches {
		assert.Equal(t, "yet_to_start", b.Status)
	}

	// Flip one batch and read again; the derived status must move with it
	require.NoError(t, repo.UpdateBatchStatus(context.Background(), status.Batches[0].BatchID, models.StatusTriggered))

	statusRes2, err := http.Get(server.URL + "/status/" + created.IngestionID)
	require.NoError(t, err)
	defer statusRes2.Body.Close()

	var status2 struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(statusRes2.Body).Decode(&status2))
	assert.Equal(t, "triggered", status2.Status)
}

func TestStatusEndpoint_NotFound(t *testing.T) {
	server, _ := newTestServer(t)

	res, err := http.Get(server.URL + "/status/does-not-exist")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	for i := 0; i < 2; i++ {
		res := postJSON(t, server.URL+"/ingest", map[string]interface{}{
			"ids":      []int64{int64(i*10 + 1), int64(i*10 + 2)},
			"priority": "LOW",
		})
		res.Body.Close()
	}

	res, err := http.Get(server.URL + "/ingestions/stats")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var stats map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&stats))
	assert.Equal(t, float64(2), stats["queueSize"])

	counts, ok := stats["statusCounts"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), counts["yet_to_start"])
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	res, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	res, err := http.Get(fmt.Sprintf("%s/nope", server.URL))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
