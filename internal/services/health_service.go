package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"naads/internal/validation"
	"naads/pkg/contracts"
)

// SourceChecker reports the availability of pipeline inputs
type SourceChecker interface {
	SourceStatus() []validation.SourceStatus
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	sources   SourceChecker
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
	Status  string                    `json:"status"`
	Message string                    `json:"message,omitempty"`
	Sources []validation.SourceStatus `json:"sources,omitempty"`
}

// NewHealthService creates a health service. sources may be nil, in which
// case readiness does not check data files.
func NewHealthService(version, buildTime string, sources SourceChecker, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		sources:   sources,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready when every data source is present
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	data := hs.checkDataHealth()
	status.Services["data"] = data
	if data.Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "Readiness check failed",
			slog.String("reason", data.Message))
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	info := contracts.GetVersionInfo()
	result["git_commit"] = info.GitCommit
	result["data_format"] = info.DataFormat
	result["api_version"] = info.APIVersion
	return result
}

func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.sources == nil {
		return ServiceHealth{Status: "ready", Message: "source checks disabled"}
	}

	statuses := hs.sources.SourceStatus()
	var missing []validation.SourceStatus
	for _, st := range statuses {
		if !st.Available {
			missing = append(missing, st)
		}
	}

	if len(missing) > 0 {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "data sources missing: " + joinNames(missing),
			Sources: missing,
		}
	}
	return ServiceHealth{Status: "ready"}
}

func joinNames(statuses []validation.SourceStatus) string {
	out := ""
	for i, st := range statuses {
		if i > 0 {
			out += ", "
		}
		out += st.Name
	}
	return out
}
