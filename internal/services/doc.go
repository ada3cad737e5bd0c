// Package services implements the application layer between the HTTP
// handlers and the data preparation pipeline.
//
// DashboardService memoizes pipeline results by source fingerprint and
// exposes the summary, the unified visit table, the cleaned metric tables and
// exports. HealthService reports liveness, readiness (all data sources
// present) and version information.
//
// Services take their dependencies and a *slog.Logger through their
// constructors:
//
//	store, _ := cache.New(cfg.Cache.MaxEntries, logger, metrics)
//	pipeline := dataprocessing.NewPipeline(opts, logger, metrics)
//	dashboard := services.NewDashboardService(pipeline, store, nil, logger)
//	summary, err := dashboard.Summary(ctx)
package services
