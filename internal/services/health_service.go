package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts"
)

// ClientCounter reports connected push clients
type ClientCounter interface {
	ClientCount() int
}

// DatasetStatus reports the state of the dataset cache
type DatasetStatus interface {
	Status() dataset.Status
}

// HealthService provides health check functionality
type HealthService struct {
	dataset   DatasetStatus
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// DatasetHealth is the dataset entry of the readiness report
type DatasetHealth struct {
	ServiceHealth
	Dataset dataset.Status `json:"dataset"`
}

// NewHealthService creates a new health service. clients may be nil when no
// push hub is running.
func NewHealthService(ds DatasetStatus, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", contracts.Version),
		slog.Bool("websocket", clients != nil))

	return &HealthService{
		dataset:   ds,
		clients:   clients,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	status := hs.ReadinessCheck(ctx)
	if status.Status == "ready" {
		status.Status = "ok"
	} else {
		status.Status = "degraded"
	}
	return status
}

// ReadinessCheck is ready once the dataset is loaded
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services:  make(map[string]interface{}),
	}

	data := hs.checkDatasetHealth()
	status.Services["dataset"] = data
	if hs.clients != nil {
		status.Services["websocket"] = ServiceHealth{
			Status:  "ready",
			Message: "WebSocket service is healthy",
			Uptime:  time.Since(hs.startTime).String(),
		}
	}

	if data.Status != "ready" {
		status.Status = "not_ready"
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	result := map[string]interface{}{
		"name":         info.Name,
		"version":      info.Version,
		"stage":        info.Stage,
		"api_version":  info.APIVersion,
		"data_format":  info.DataFormat,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if info.BuildTime != "unknown" {
		result["build_time"] = info.BuildTime
	}
	if info.GitCommit != "unknown" {
		result["git_commit"] = info.GitCommit
	}
	return result
}

func (hs *HealthService) checkDatasetHealth() DatasetHealth {
	if hs.dataset == nil {
		return DatasetHealth{ServiceHealth: ServiceHealth{
			Status:  "not_ready",
			Message: "dataset cache not initialized",
		}}
	}

	st := hs.dataset.Status()
	h := DatasetHealth{Dataset: st}
	switch {
	case st.Loaded:
		h.Status = "ready"
		h.Message = "Dataset loaded"
	case st.LastError != "":
		h.Status = "not_ready"
		h.Message = "Dataset failed to load: " + st.LastError
	default:
		h.Status = "not_ready"
		h.Message = "Dataset not loaded yet"
	}
	return h
}
