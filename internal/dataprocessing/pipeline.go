package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"naads/internal/config"
	apperrors "naads/internal/errors"
	"naads/internal/infrastructure"
	"naads/pkg/contracts/domain"
)

// Options configures one pipeline
type Options struct {
	Sources       config.Sources
	MetricSheet   string
	ExcludedDates []time.Time
	AfterCutoff   time.Time
	JoinMode      string
}

// OptionsFromConfig resolves pipeline options from the application config
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	excluded, err := cfg.ExcludedDates()
	if err != nil {
		return Options{}, apperrors.NewConfigError("invalid excluded dates", err)
	}
	cutoff, err := cfg.AfterCutoffDate()
	if err != nil {
		return Options{}, apperrors.NewConfigError("invalid after cutoff", err)
	}
	return Options{
		Sources:       cfg.Sources(),
		MetricSheet:   cfg.Pipeline.MetricSheet,
		ExcludedDates: excluded,
		AfterCutoff:   cutoff,
		JoinMode:      cfg.Pipeline.AdJoinMode,
	}, nil
}

// Key is a stable textual form of the options that affect pipeline output
func (o Options) Key() string {
	dates := make([]string, len(o.ExcludedDates))
	for i, d := range o.ExcludedDates {
		dates[i] = d.Format(config.DateLayout)
	}
	return fmt.Sprintf("sheet=%s;excluded=%s;cutoff=%s;join=%s",
		o.MetricSheet, strings.Join(dates, ","), o.AfterCutoff.Format(config.DateLayout), o.joinMode())
}

func (o Options) joinMode() string {
	if o.JoinMode == "" {
		return config.JoinModeFanout
	}
	return o.JoinMode
}

// requiredColumns lists the columns the pipeline reads from specific tables
var requiredColumns = map[string][]string{
	config.MetricVisitors:   {domain.ColumnVisitors},
	config.MetricResolution: {domain.ColumnResolution, domain.ColumnResolutionPct},
}

// Pipeline turns the raw exports into the prepared dashboard tables
type Pipeline struct {
	opts    Options
	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics
}

// NewPipeline creates a pipeline. metrics may be nil.
func NewPipeline(opts Options, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		opts:    opts,
		logger:  infrastructure.WithComponent(logger, "pipeline"),
		metrics: metrics,
	}
}

// Options returns the pipeline configuration
func (p *Pipeline) Options() Options {
	return p.opts
}

// Run executes every preparation step. Cancellation of ctx is honored between
// steps.
func (p *Pipeline) Run(ctx context.Context) (data *domain.PreparedData, err error) {
	start := time.Now()
	ctx, span := infrastructure.StartSpan(ctx, "pipeline.run",
		attribute.String("join_mode", p.opts.joinMode()))
	defer span.End()

	defer func() {
		rows := 0
		if data != nil {
			rows = len(data.Visits.Rows)
		}
		if err != nil {
			infrastructure.RecordError(ctx, err)
			p.logger.ErrorContext(ctx, "Pipeline failed",
				slog.String("error", err.Error()),
				slog.Duration("duration", time.Since(start)))
		}
		p.metrics.RecordPipelineRun(ctx, time.Since(start), rows, err)
	}()

	mode := p.opts.joinMode()
	if mode != config.JoinModeFanout && mode != config.JoinModeCollapse {
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown ad join mode %q", mode), nil)
	}

	tables, err := p.loadMetrics(ctx)
	if err != nil {
		return nil, err
	}

	ads, err := p.loadAdSpend(ctx)
	if err != nil {
		return nil, err
	}

	visits, ok := tables[domain.MetricKey(config.MetricVisitors)]
	if !ok {
		return nil, apperrors.NewConfigError(fmt.Sprintf("metric table %q is not configured", config.MetricVisitors), nil)
	}
	resolution, ok := tables[domain.MetricKey(config.MetricResolution)]
	if !ok {
		return nil, apperrors.NewConfigError(fmt.Sprintf("metric table %q is not configured", config.MetricResolution), nil)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, joinSpan := infrastructure.StartSpan(ctx, "pipeline.join")
	if mode == config.JoinModeCollapse {
		ads = CollapseAdSpend(ads)
	}
	rows, defaultedVisitors := JoinAdSpend(visits, ads)
	defaultedShare := JoinResolution(rows, resolution)
	joinSpan.End()

	p.metrics.RecordDefaulted(ctx, config.MetricVisitors, domain.ColumnVisitors, defaultedVisitors)
	p.metrics.RecordDefaulted(ctx, config.MetricResolution, domain.ColumnResolutionPct, defaultedShare)
	if defaultedVisitors > 0 || defaultedShare > 0 {
		p.logger.DebugContext(ctx, "Defaulted unparseable values",
			slog.Int("visitors", defaultedVisitors),
			slog.Int("resolution_share", defaultedShare))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	Derive(rows, p.opts.AfterCutoff)
	AggregateDailyCost(rows)

	data = &domain.PreparedData{
		Visits: &domain.UnifiedVisitTable{
			JoinMode: mode,
			Rows:     rows,
		},
		Metrics:    tables,
		PreparedAt: time.Now(),
	}

	p.logger.InfoContext(ctx, "Pipeline completed",
		slog.Int("metric_tables", len(tables)),
		slog.Int("ad_records", len(ads)),
		slog.Int("unified_rows", len(rows)),
		slog.String("join_mode", mode),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

func (p *Pipeline) loadMetrics(ctx context.Context) (map[string]*domain.MetricTable, error) {
	ctx, span := infrastructure.StartSpan(ctx, "pipeline.load_metrics")
	defer span.End()

	tables := make(map[string]*domain.MetricTable, len(p.opts.Sources.MetricNames))
	for _, name := range p.opts.Sources.MetricNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := p.opts.Sources.Metrics[name]
		table, stats, err := LoadMetricTable(name, path, LoadOptions{
			Sheet:           p.opts.MetricSheet,
			ExcludedDates:   p.opts.ExcludedDates,
			RequiredColumns: requiredColumns[name],
		})
		if err != nil {
			infrastructure.RecordError(ctx, err)
			return nil, err
		}

		p.logger.DebugContext(ctx, "Loaded metric table",
			slog.String("table", name),
			slog.Int("raw_rows", stats.RawRows),
			slog.Int("duplicates", stats.Duplicates),
			slog.Int("excluded", stats.ExcludedRows),
			slog.Int("blank_dates", stats.BlankDates),
			slog.Int("rows", stats.RetainedRows))

		tables[domain.MetricKey(name)] = table
	}
	return tables, nil
}

func (p *Pipeline) loadAdSpend(ctx context.Context) ([]domain.AdSpendRecord, error) {
	ctx, span := infrastructure.StartSpan(ctx, "pipeline.load_ad_spend")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, stats, err := LoadAdSpend(p.opts.Sources.AdSpend)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	p.metrics.RecordDefaulted(ctx, AdSpendSource, domain.ColumnEstCost, stats.DefaultedEstCost)
	p.metrics.RecordDefaulted(ctx, AdSpendSource, domain.ColumnTargetCount, stats.DefaultedTargetCount)
	p.logger.DebugContext(ctx, "Loaded ad spend",
		slog.Int("records", stats.Records),
		slog.Int("defaulted_est_cost", stats.DefaultedEstCost),
		slog.Int("defaulted_target_count", stats.DefaultedTargetCount))

	return records, nil
}
