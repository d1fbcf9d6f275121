package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eugenenazirov/equipartition/internal/api"
	"github.com/eugenenazirov/equipartition/internal/config"
	"github.com/eugenenazirov/equipartition/internal/metrics"
	"github.com/eugenenazirov/equipartition/internal/partition"
	"github.com/eugenenazirov/equipartition/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage  storage.Storage
	solver   partition.Solver
	registry *prometheus.Registry
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage(cfg.CacheSize)
	solver := partition.New(
		partition.WithMaxSteps(cfg.MaxSteps),
		partition.WithLocalPruning(cfg.LocalPruning),
	)

	var (
		registry *prometheus.Registry
		recorder metrics.Recorder = metrics.Nop{}
	)
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		prom, err := metrics.NewPrometheus(registry, "")
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		recorder = prom
	}

	handler := api.NewHandler(solver, store,
		api.WithRecorder(recorder),
		api.WithLogger(logger),
		api.WithLimits(api.Limits{
			MaxValues:    cfg.MaxValues,
			MaxSteps:     cfg.MaxSteps,
			SolveTimeout: cfg.SolveTimeout,
		}),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	rootHandler := BuildRootHandler(apiRouter, registry)

	return &App{
		storage:  store,
		solver:   solver,
		registry: registry,
		handler:  handler,
		router:   apiRouter,
		logger:   logger,
		server:   NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler routes API requests and, when a registry is provided,
// serves its metrics on /metrics.
func BuildRootHandler(apiHandler http.Handler, registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	if registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
