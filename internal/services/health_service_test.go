package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/internal/shared/testutil"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts"
)

type staticStatus dataset.Status

func (s staticStatus) Status() dataset.Status { return dataset.Status(s) }

type staticClients int

func (c staticClients) ClientCount() int { return int(c) }

func TestHealthService_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		status     DatasetStatus
		wantStatus string
		wantHealth string
	}{
		{
			name:       "loaded",
			status:     staticStatus{Loaded: true},
			wantStatus: "ready",
			wantHealth: "ok",
		},
		{
			name:       "load failed",
			status:     staticStatus{LastError: "dataset not found"},
			wantStatus: "not_ready",
			wantHealth: "degraded",
		},
		{
			name:       "not loaded yet",
			status:     staticStatus{},
			wantStatus: "not_ready",
			wantHealth: "degraded",
		},
		{
			name:       "no cache",
			status:     nil,
			wantStatus: "not_ready",
			wantHealth: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService(tt.status, staticClients(2), logger)

			ready := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, ready.Status)
			assert.Equal(t, contracts.Version, ready.Version)
			assert.Contains(t, ready.Services, "dataset")
			assert.Contains(t, ready.Services, "websocket")

			assert.Equal(t, tt.wantHealth, hs.HealthCheck(context.Background()).Status)
		})
	}
}

func TestHealthService_DatasetDetails(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService(staticStatus{LastError: "boom"}, nil, logger)

	ready := hs.ReadinessCheck(context.Background())
	data, ok := ready.Services["dataset"].(DatasetHealth)
	require.True(t, ok)
	assert.Contains(t, data.Message, "boom")
	assert.Equal(t, "boom", data.Dataset.LastError)
	assert.NotContains(t, ready.Services, "websocket")
}

func TestHealthService_LivenessAndVersion(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService(staticStatus{Loaded: true}, nil, logger)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, contracts.Version, v["version"])
	assert.Equal(t, contracts.AppName, v["name"])
	assert.True(t, logs.ContainsMessage("HealthService initialized"))
}
