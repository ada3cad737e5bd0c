package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "naads/internal/errors"
	mw "naads/internal/middleware"
	"naads/internal/services"
)

// Export formats accepted by GET /api/dashboard/export
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

const (
	maxPageSize     = 10000
	defaultPageSize = 0 // all rows
)

// DashboardHandler serves the prepared dashboard data with RFC 7807 errors
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *mw.QueryParamValidator
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		query:        mw.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/summary", h.GetSummary)
		r.Get("/visits", h.GetVisits)
		r.Get("/metrics", h.GetMetricNames)
		r.Get("/metrics/{name}", h.GetMetricTable)
		r.Get("/sources", h.GetSources)
	})

	r.Get("/export", h.Export)
	r.Get("/export.csv", h.exportAs(ExportFormatCSV))
	r.Get("/export.xlsx", h.exportAs(ExportFormatXLSX))

	return r
}

// CacheRoutes returns the cache administration routes
func (h *DashboardHandler) CacheRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/stats", h.GetCacheStats)
	r.Post("/invalidate", h.InvalidateCache)
	return r
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.fail(w, r, "summary", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetVisits handles GET /api/dashboard/visits. limit=0 returns every row
// from offset on.
func (h *DashboardHandler) GetVisits(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.query.ValidateInt(w, r, "limit", 0, maxPageSize, defaultPageSize)
	if !ok {
		return
	}
	offset, ok := h.query.ValidateInt(w, r, "offset", 0, 1<<30, 0)
	if !ok {
		return
	}

	table, err := h.service.VisitTable(r.Context())
	if err != nil {
		h.fail(w, r, "visits", err)
		return
	}

	rows := table.Rows
	total := len(rows)
	if offset > len(rows) {
		offset = len(rows)
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"join_mode": table.JoinMode,
		"data":      rows,
		"count":     len(rows),
		"total":     total,
		"offset":    offset,
	})
}

// GetMetricNames handles GET /api/dashboard/metrics
func (h *DashboardHandler) GetMetricNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.MetricNames(r.Context())
	if err != nil {
		h.fail(w, r, "metric names", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   names,
		"count":  len(names),
	})
}

// GetMetricTable handles GET /api/dashboard/metrics/{name}
func (h *DashboardHandler) GetMetricTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Metric name is required"))
		return
	}

	table, err := h.service.MetricTable(r.Context(), name)
	if err != nil {
		h.fail(w, r, "metric table", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   table,
		"count":  len(table.Rows),
	})
}

// GetSources handles GET /api/dashboard/sources
func (h *DashboardHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	inventory, err := h.service.Inventory()
	if err != nil {
		h.fail(w, r, "source inventory", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"sources": h.service.SourceStatus(),
			"files":   inventory,
		},
	})
}

// Export handles GET /api/dashboard/export?format=csv|xlsx
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := h.query.ValidateEnum(w, r, "format", []string{ExportFormatCSV, ExportFormatXLSX}, ExportFormatCSV)
	if !ok {
		return
	}
	h.export(w, r, format)
}

func (h *DashboardHandler) exportAs(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.export(w, r, format)
	}
}

func (h *DashboardHandler) export(w http.ResponseWriter, r *http.Request, format string) {
	var (
		buf         bytes.Buffer
		err         error
		contentType string
		filename    string
	)

	switch format {
	case ExportFormatXLSX:
		err = h.service.ExportXLSX(r.Context(), &buf)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "na_ads_dashboard.xlsx"
	default:
		err = h.service.ExportCSV(r.Context(), &buf)
		contentType = "text/csv; charset=utf-8"
		filename = "na_ads_visits.csv"
	}
	if err != nil {
		h.fail(w, r, "export", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write failed",
			slog.String("error", err.Error()),
			slog.String("format", format))
	}
}

// GetCacheStats handles GET /api/cache/stats
func (h *DashboardHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.CacheStats(),
	})
}

// InvalidateCache handles POST /api/cache/invalidate
func (h *DashboardHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	stats := h.service.InvalidateCache(r.Context())

	h.logger.InfoContext(r.Context(), "cache invalidated",
		slog.String("request_id", middleware.GetReqID(r.Context())))

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}

// fail maps service errors onto API errors
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	h.logger.ErrorContext(r.Context(), "failed to get "+what,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	switch {
	case errors.Is(err, services.ErrMetricNotFound):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"METRIC_NOT_FOUND",
			"Metric table not found",
			chi.URLParam(r, "name"),
		))
	case errors.Is(err, services.ErrNoData):
		h.errorHandler.HandleError(w, r, apierrors.ErrServiceUnavailable)
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
