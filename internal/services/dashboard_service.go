package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"naads/internal/cache"
	"naads/internal/dataprocessing"
	"naads/internal/exporter"
	"naads/internal/files"
	"naads/internal/validation"
	"naads/pkg/contracts/domain"
)

// PipelineRunner runs the data preparation pipeline
type PipelineRunner interface {
	Run(ctx context.Context) (*domain.PreparedData, error)
	Options() dataprocessing.Options
}

// DashboardService serves prepared dashboard data, memoized by source
// fingerprint.
type DashboardService struct {
	pipeline  PipelineRunner
	store     *cache.Store
	validator *validation.SourceValidator
	logger    *slog.Logger
}

// NewDashboardService creates a dashboard service
func NewDashboardService(pipeline PipelineRunner, store *cache.Store, validator *validation.SourceValidator, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = validation.NewSourceValidator(logger)
	}
	return &DashboardService{
		pipeline:  pipeline,
		store:     store,
		validator: validator,
		logger:    logger.With(slog.String("service", "dashboard")),
	}
}

// Fingerprint returns the cache key for the current state of the sources
func (s *DashboardService) Fingerprint() string {
	opts := s.pipeline.Options()
	return cache.Fingerprint(opts.Sources.All(), opts.Key())
}

// Prepared returns the prepared tables, running the pipeline when the sources
// changed since the last run. The result is shared and must not be modified.
func (s *DashboardService) Prepared(ctx context.Context) (*domain.PreparedData, error) {
	opts := s.pipeline.Options()
	key := s.Fingerprint()

	start := time.Now()
	data, hit, err := s.store.Get(ctx, key, func(ctx context.Context) (*domain.PreparedData, error) {
		if err := s.validator.ValidateSources(opts.Sources); err != nil {
			return nil, err
		}
		return s.pipeline.Run(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Prepared data served",
		slog.Bool("cache_hit", hit),
		slog.Duration("duration", time.Since(start)))
	return data, nil
}

// Summary returns the dashboard tiles and chart series
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	data, err := s.Prepared(ctx)
	if err != nil {
		return nil, err
	}
	return dataprocessing.Summarize(data.Visits), nil
}

// VisitTable returns the unified visit table
func (s *DashboardService) VisitTable(ctx context.Context) (*domain.UnifiedVisitTable, error) {
	data, err := s.Prepared(ctx)
	if err != nil {
		return nil, err
	}
	if data.Visits == nil {
		return nil, ErrNoData
	}
	return data.Visits, nil
}

// MetricTable returns one cleaned metric table. name may be the bare table
// name ("uv") or its mapping key ("uv_df").
func (s *DashboardService) MetricTable(ctx context.Context, name string) (*domain.MetricTable, error) {
	data, err := s.Prepared(ctx)
	if err != nil {
		return nil, err
	}

	table, ok := data.Metric(strings.TrimSuffix(name, "_df"))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMetricNotFound, name)
	}
	return table, nil
}

// MetricNames lists the loaded metric tables in sorted order
func (s *DashboardService) MetricNames(ctx context.Context) ([]string, error) {
	data, err := s.Prepared(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(data.Metrics))
	for _, t := range data.Metrics {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names, nil
}

// InvalidateCache drops memoized results so the next request re-runs the
// pipeline
func (s *DashboardService) InvalidateCache(ctx context.Context) cache.Stats {
	s.store.Invalidate(ctx, "manual")
	return s.store.Stats()
}

// CacheStats returns cache counters
func (s *DashboardService) CacheStats() cache.Stats {
	return s.store.Stats()
}

// ExportCSV writes the unified visit table as CSV
func (s *DashboardService) ExportCSV(ctx context.Context, w io.Writer) error {
	table, err := s.VisitTable(ctx)
	if err != nil {
		return err
	}
	return exporter.WriteVisitTableCSV(w, table)
}

// ExportXLSX writes the unified and metric tables as an Excel workbook
func (s *DashboardService) ExportXLSX(ctx context.Context, w io.Writer) error {
	data, err := s.Prepared(ctx)
	if err != nil {
		return err
	}
	return exporter.WriteWorkbook(w, data)
}

// SourceStatus reports the availability of every source file
func (s *DashboardService) SourceStatus() []validation.SourceStatus {
	return s.validator.Check(s.pipeline.Options().Sources)
}

// Inventory lists the export files found next to the configured sources
func (s *DashboardService) Inventory() ([]files.FileInfo, error) {
	return files.Inventory(s.pipeline.Options().Sources)
}
