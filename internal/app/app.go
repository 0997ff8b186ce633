package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"tickstats/internal/config"
	apierrors "tickstats/internal/errors"
	"tickstats/internal/infrastructure"
	customMiddleware "tickstats/internal/middleware"
	"tickstats/internal/registry"
	"tickstats/internal/services"
	"tickstats/internal/stats"
	handlers "tickstats/internal/transport/http"
	"tickstats/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Registry      *registry.Registry
	Services      *ServiceContainer
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ServiceMetrics
	ErrorHandler  *apierrors.ErrorHandler

	ready    chan struct{}
	addr     string
	stopOnce sync.Once
	stopErr  error
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Stats  *services.StatsService
	Export *services.ExportService
	Health *services.HealthService
}

// NewApplication loads configuration, initializes the global logger and
// wires the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires an application from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetVersionString()),
		slog.Bool("prerelease", contracts.IsPrerelease()),
		slog.String("environment", cfg.Telemetry.Environment))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateServiceMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create service metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
		ready:         make(chan struct{}),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices creates the series registry and the services on top of it
func (a *Application) initializeServices() {
	a.Registry = registry.New(registry.Options{
		Capacity:  stats.MaxObservations,
		MaxSeries: a.Config.Engine.MaxSeries,
		OnCreate: func(symbol string) {
			infrastructure.RecordSeriesCreated(context.Background(), a.Metrics)
			a.Logger.Debug("series created", slog.String("symbol", symbol))
		},
	})

	statsService := services.NewStatsService(a.Registry, a.OTelProviders.Tracer, a.Metrics, a.Logger)
	a.Services = &ServiceContainer{
		Stats:  statsService,
		Export: services.NewExportService(statsService, a.OTelProviders.Tracer, a.Metrics, a.Logger),
		Health: services.NewHealthService(a.Registry, a.Logger),
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Set before mounting so sub-routers inherit them
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// Scrapes skip logging, rate limiting and compression
	r.Method(http.MethodGet, "/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.MaxBodySize(a.Config.Server.MaxBodyBytes))
		r.Use(customMiddleware.Compress(5))

		health := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Get("/health", health.HealthCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Get("/version", health.Version)

		statsHandler := handlers.NewStatsHandler(
			a.Services.Stats,
			a.Services.Export,
			handlers.StatsHandlerConfig{
				MaxBatchSize:    a.Config.Engine.MaxBatchSize,
				IngestTokenHash: a.Config.Security.IngestTokenHash,
			},
			a.Logger,
			a.ErrorHandler,
		)
		r.Mount("/", statsHandler.Routes())
	})

	a.Router = r
}

// getCORSConfig returns CORS configuration
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Ready is closed once the server is listening
func (a *Application) Ready() <-chan struct{} {
	return a.ready
}

// Addr returns the bound listen address. It is only meaningful after Ready
// is closed.
func (a *Application) Addr() string {
	return a.addr
}

// Start binds the listener and serves until the server is shut down
func (a *Application) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.addr = ln.Addr().String()

	a.Logger.InfoContext(ctx, "Server listening",
		slog.String("address", a.addr),
		slog.Int("window_capacity", stats.MaxObservations),
		slog.Int("max_batch_size", a.Config.Engine.MaxBatchSize))

	a.performStartupHealthCheck(ctx)
	close(a.ready)

	if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop drains the server and flushes telemetry. Calling it more than once
// returns the first result.
func (a *Application) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.stopErr = a.stop(ctx)
	})
	return a.stopErr
}

func (a *Application) stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Stopping application")
	a.Services.Health.SetDraining()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	a.Logger.InfoContext(ctx, "Application stopped",
		slog.Int("series", a.Registry.Len()))
	return nil
}

// Run starts the server and blocks until ctx is cancelled, SIGINT or
// SIGTERM arrives, or the server fails.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Lifecycle logs share one trace_id
	ctx = infrastructure.EnsureTraceID(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(gctx, "Shutdown signal received")
		// The parent context is already done; give shutdown a fresh one.
		return a.Stop(context.WithoutCancel(gctx))
	})

	return g.Wait()
}

// performStartupHealthCheck logs the health of every component once the
// listener is bound.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	report := a.Services.Health.ReadinessCheck(ctx)
	for name, component := range report.Services {
		svc, ok := component.(services.ServiceHealth)
		if ok && svc.Status != "ready" {
			a.Logger.WarnContext(ctx, "Startup health check warning",
				slog.String("component", name),
				slog.String("status", svc.Status),
				slog.String("message", svc.Message))
		}
	}
	a.Logger.InfoContext(ctx, "Startup health check complete", slog.String("status", report.Status))
}
