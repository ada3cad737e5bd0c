package http

import (
	"context"
	"io"

	"naads/internal/cache"
	"naads/internal/files"
	"naads/internal/validation"
	"naads/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations used by the
// handlers
type DashboardServiceInterface interface {
	Summary(ctx context.Context) (*domain.DashboardSummary, error)
	VisitTable(ctx context.Context) (*domain.UnifiedVisitTable, error)
	MetricTable(ctx context.Context, name string) (*domain.MetricTable, error)
	MetricNames(ctx context.Context) ([]string, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	ExportXLSX(ctx context.Context, w io.Writer) error
	InvalidateCache(ctx context.Context) cache.Stats
	CacheStats() cache.Stats
	SourceStatus() []validation.SourceStatus
	Inventory() ([]files.FileInfo, error)
}
