package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/internal/services"
	"github.com/fmaignacio/observatorio-tere/internal/shared/testutil"
)

type fixedStatus dataset.Status

func (s fixedStatus) Status() dataset.Status { return dataset.Status(s) }

func newHealthRouter(t *testing.T, status services.DatasetStatus) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewHealthHandler(services.NewHealthService(status, nil, logger), logger)

	r := chi.NewRouter()
	r.Mount("/api/health", h.Routes())
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		status     dataset.Status
		path       string
		wantCode   int
		wantStatus string
	}{
		{"health loaded", dataset.Status{Loaded: true}, "/api/health", http.StatusOK, "ok"},
		{"health not loaded", dataset.Status{}, "/api/health", http.StatusOK, "degraded"},
		{"ready", dataset.Status{Loaded: true}, "/api/health/ready", http.StatusOK, "ready"},
		{"not ready", dataset.Status{LastError: "dataset not found"}, "/api/health/ready", http.StatusServiceUnavailable, "not_ready"},
		{"live", dataset.Status{}, "/api/health/live", http.StatusOK, "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newHealthRouter(t, fixedStatus(tt.status)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthRouter(t, fixedStatus{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["version"])
	assert.Contains(t, body, "api_version")
}
