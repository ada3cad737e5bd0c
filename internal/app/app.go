package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"naads/internal/cache"
	"naads/internal/config"
	"naads/internal/dataprocessing"
	apierrors "naads/internal/errors"
	"naads/internal/files"
	"naads/internal/infrastructure"
	customMiddleware "naads/internal/middleware"
	"naads/internal/services"
	handlers "naads/internal/transport/http"
	"naads/internal/validation"
	"naads/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	Cache         *cache.Store
	Watcher       *cache.Watcher
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// NewApplication loads the configuration and logger and builds the
// application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New builds the application from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))
	cfg.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the pipeline, cache and services
func (a *Application) initializeServices() error {
	opts, err := dataprocessing.OptionsFromConfig(a.Config)
	if err != nil {
		return err
	}

	store, err := cache.New(a.Config.Cache.MaxEntries, a.Logger, a.Metrics)
	if err != nil {
		return err
	}
	a.Cache = store

	pipeline := dataprocessing.NewPipeline(opts, a.Logger, a.Metrics)
	validator := validation.NewSourceValidator(a.Logger)
	dashboard := services.NewDashboardService(pipeline, store, validator, a.Logger)
	health := services.NewHealthService(config.AppVersion, contracts.BuildTime, dashboard, a.Logger)

	a.Services = &ServiceContainer{
		Dashboard: dashboard,
		Health:    health,
	}

	a.Logger.Info("Services initialized",
		slog.String("join_mode", a.Config.Pipeline.AdJoinMode),
		slog.Int("metric_tables", len(opts.Sources.MetricNames)),
		slog.Int("cache_entries", a.Config.Cache.MaxEntries))
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	// RequestID -> RealIP -> Telemetry -> Logger -> Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Telemetry(a.Metrics))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(errorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			errorHandler,
		).Handler)
	}
	if a.Config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.Config.Server.RequestTimeout))
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	clientLogHandler := handlers.NewClientLogHandler(a.Logger, errorHandler)

	r.Get("/", handlers.ServeDashboard(handlers.DefaultPageTitle, a.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/dashboard", dashboardHandler.Routes())
		r.Mount("/cache", dashboardHandler.CacheRoutes())

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.Version)

		r.Post("/client-log", clientLogHandler.Handle)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// startWatcher invalidates the cache whenever a source file changes. A
// watcher that cannot start only disables automatic invalidation.
func (a *Application) startWatcher(ctx context.Context) {
	if !a.Config.Cache.WatchSources {
		return
	}

	debounce := a.Config.Cache.WatchDebounce
	if debounce < config.WatchDebounceFloor {
		debounce = config.WatchDebounceFloor
	}

	w, err := cache.Watch(a.Config.Sources().All(), debounce, a.Logger, func(path string) {
		a.Logger.InfoContext(ctx, "Source changed, invalidating cache", slog.String("path", path))
		a.Cache.Invalidate(context.Background(), "source_changed")
	})
	if err != nil {
		a.Logger.WarnContext(ctx, "Source watcher disabled", slog.String("error", err.Error()))
		return
	}
	a.Watcher = w
}

// Start starts the application
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.startWatcher(ctx)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.Watcher != nil {
		if err := a.Watcher.Close(); err != nil {
			a.Logger.ErrorContext(ctx, "Error closing source watcher", slog.String("error", err.Error()))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck reports missing sources and warms the cache when
// every source is present
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string
	for _, st := range a.Services.Dashboard.SourceStatus() {
		if !st.Available {
			warnings = append(warnings, fmt.Sprintf("%s: %s", st.Name, st.Error))
		}
	}
	if inventory, err := a.Services.Dashboard.Inventory(); err == nil {
		for _, f := range files.Unconfigured(inventory) {
			a.Logger.InfoContext(ctx, "Unused export in data directory", slog.String("path", f.Path))
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("data sources unavailable: %s", strings.Join(warnings, "; "))
	}

	warmCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	if _, err := a.Services.Dashboard.Prepared(warmCtx); err != nil {
		return fmt.Errorf("initial data preparation failed: %w", err)
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}
