package services

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"tickstats/pkg/contracts"
)

// SeriesCounter reports how many series are registered
type SeriesCounter interface {
	Len() int
}

// HealthService provides health check functionality
type HealthService struct {
	series    SeriesCounter
	draining  atomic.Bool
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

// ServiceHealth represents individual component health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Series  *int   `json:"series,omitempty"`
}

// VersionResponse is the body of GET /version
type VersionResponse struct {
	contracts.VersionInfo
	UptimeSeconds float64 `json:"uptime_seconds"`
	StartTime     string  `json:"start_time"`
}

// NewHealthService creates a new health service
func NewHealthService(series SeriesCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "health_service"))

	logger.Info("HealthService initialized", slog.String("version", contracts.Version))

	return &HealthService{
		series:    series,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   contracts.Version,
	}
}

// ReadinessCheck returns readiness status. A draining server reports
// not_ready so load balancers stop routing to it before shutdown.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services:  make(map[string]interface{}),
	}

	status.Services["registry"] = hs.checkRegistryHealth()
	status.Services["server"] = hs.checkServerHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	hs.logger.DebugContext(ctx, "ReadinessCheck: completed", slog.String("status", status.Status))
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
func (hs *HealthService) Version() VersionResponse {
	return VersionResponse{
		VersionInfo:   contracts.GetVersionInfo(),
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		StartTime:     hs.startTime.Format(time.RFC3339),
	}
}

// SetDraining marks the server as shutting down
func (hs *HealthService) SetDraining() {
	if !hs.draining.Swap(true) {
		hs.logger.Info("Readiness switched to draining")
	}
}

func (hs *HealthService) checkRegistryHealth() ServiceHealth {
	if hs.series == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "series registry not initialized",
		}
	}

	n := hs.series.Len()
	return ServiceHealth{
		Status:  "ready",
		Message: "series registry is healthy",
		Series:  &n,
	}
}

func (hs *HealthService) checkServerHealth() ServiceHealth {
	if hs.draining.Load() {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "server is shutting down",
		}
	}
	return ServiceHealth{Status: "ready"}
}
