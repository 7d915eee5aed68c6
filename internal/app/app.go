package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fmaignacio/observatorio-tere/internal/config"
	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	apierrors "github.com/fmaignacio/observatorio-tere/internal/errors"
	"github.com/fmaignacio/observatorio-tere/internal/infrastructure"
	customMiddleware "github.com/fmaignacio/observatorio-tere/internal/middleware"
	"github.com/fmaignacio/observatorio-tere/internal/services"
	handlers "github.com/fmaignacio/observatorio-tere/internal/transport/http"
	ws "github.com/fmaignacio/observatorio-tere/internal/websocket"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	Cache        *dataset.Cache
	Dashboard    *services.DashboardService
	Health       *services.HealthService
	WebSocketHub *ws.Hub
	ErrorHandler *apierrors.ErrorHandler

	Router *chi.Mux
	Server *http.Server

	source    dataset.Source
	listener  net.Listener
	ready     chan struct{}
	serverErr chan error
	stopOnce  sync.Once
	stopErr   error
}

// Option customizes NewApplication
type Option func(*Application)

// WithLogger replaces the logger built from the logging configuration
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) { a.Logger = logger }
}

// WithSource replaces the file loader as the dataset source
func WithSource(source dataset.Source) Option {
	return func(a *Application) { a.source = source }
}

// NewApplication wires every component from cfg. Nothing is started; the
// dataset is not read until Start or the first request.
func NewApplication(cfg *config.Config, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}

	a := &Application{
		Config:    cfg,
		ready:     make(chan struct{}),
		serverErr: make(chan error, 1),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		logger, err := infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.Logger = logger
	}

	a.Logger.Info("Application starting",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version),
	)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	a.OTelProviders = providers

	a.Metrics, err = infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

// initializeServices builds the data path: source, cache, hub and services
func (a *Application) initializeServices() error {
	if a.source == nil {
		loader, err := dataset.NewLoader(a.Config.Dataset, a.Logger, dataset.WithMetrics(a.Metrics))
		if err != nil {
			return fmt.Errorf("failed to create dataset loader: %w", err)
		}
		a.source = loader
	}
	a.Cache = dataset.NewCache(a.source, a.Logger)

	a.WebSocketHub = ws.NewHub(a.Config.WebSocket, a.Logger, ws.WithMetrics(a.Metrics))

	a.Dashboard = services.NewDashboardService(a.Cache, a.Config, a.Logger,
		services.WithNotifier(a.WebSocketHub),
		services.WithBusinessMetrics(a.Metrics),
	)
	a.Health = services.NewHealthService(a.Cache, a.WebSocketHub, a.Logger)
	a.ErrorHandler = apierrors.NewErrorHandler(a.Logger, false, handlers.ErrorMappings()...)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Only middleware that leaves the ResponseWriter alone runs ahead of /ws
	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.Security.AllowedOrigins, a.ErrorHandler, a.Logger)
	r.With(customMiddleware.WebSocketTrace(a.Logger)).Get("/ws", wsHandler.ServeHTTP)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)
		r.Use(customMiddleware.CORS(a.Config.Security))
		r.Use(customMiddleware.NewRateLimiter(a.Config.Security.RateLimit, a.Logger).Handler)
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.ErrorHandler))

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Mount("/dashboard", dashboardHandler.Routes())
		r.With(customMiddleware.AuditLog(a.Logger)).Post("/dataset/reload", dashboardHandler.Reload)
	})
}

func (a *Application) createServer() {
	s := a.Config.Server
	a.Server = &http.Server{
		Addr:           s.Addr(),
		Handler:        a.Router,
		ReadTimeout:    s.ReadTimeout,
		WriteTimeout:   s.WriteTimeout,
		IdleTimeout:    s.IdleTimeout,
		MaxHeaderBytes: s.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Preload reads the dataset into the cache. A missing dataset leaves the
// service running degraded; any other failure, such as missing columns, is
// returned.
func (a *Application) Preload(ctx context.Context) error {
	table, err := a.Cache.Get(ctx)
	switch {
	case err == nil:
		a.Logger.InfoContext(ctx, "dataset preloaded", slog.Int("rows", table.Len()))
		return nil
	case errors.Is(err, dataset.ErrNotFound):
		a.Logger.WarnContext(ctx, "dataset not found, serving without data",
			slog.String("error", err.Error()))
		return nil
	default:
		return fmt.Errorf("failed to load dataset: %w", err)
	}
}

// Start starts the hub, preloads the dataset when configured and begins
// serving. It returns once the listener is bound.
func (a *Application) Start(ctx context.Context) error {
	a.WebSocketHub.Start()

	if a.Config.Dataset.LoadOnStartup {
		if err := a.Preload(ctx); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln
	close(a.ready)

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.serverErr <- err
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", ln.Addr().String()),
		slog.String("metrics_exporter", a.Config.Telemetry.MetricExporter),
	)
	return nil
}

// Ready is closed once the listener is bound
func (a *Application) Ready() <-chan struct{} {
	return a.ready
}

// Addr returns the bound address once Ready is closed
func (a *Application) Addr() string {
	if a.listener == nil {
		return a.Server.Addr
	}
	return a.listener.Addr().String()
}

// Stop gracefully stops the application. Later calls return the first result.
func (a *Application) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.stopErr = a.stop(ctx)
	})
	return a.stopErr
}

func (a *Application) stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := a.WebSocketHub.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("websocket hub shutdown: %w", err))
	}
	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run starts the application and blocks until ctx is cancelled or the
// server fails, then shuts down.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		a.Logger.Info("Received shutdown signal")
	case err := <-a.serverErr:
		a.Logger.Error("Server error", slog.String("error", err.Error()))
		_ = a.Stop(context.Background())
		return fmt.Errorf("server error: %w", err)
	}

	return a.Stop(context.Background())
}
