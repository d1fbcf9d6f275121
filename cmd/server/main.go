package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/equipartition/internal/application"
	"github.com/eugenenazirov/equipartition/internal/config"
	"github.com/eugenenazirov/equipartition/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("equipartition-server", "Equal-sum partition service - splits integer lists into two halves with equal sums")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	maxValues := kingpinApp.Flag("max-values", "Maximum number of values accepted per request").Default("0").Int()
	maxSteps := kingpinApp.Flag("max-steps", "Maximum search steps per request (0 for unlimited)").Default("-1").Int64()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *maxValues > 0 {
		overrides.MaxValues = maxValues
	}

	if *maxSteps >= 0 {
		overrides.MaxSteps = maxSteps
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	logger.Info("solver configured",
		zap.Int("max_values", cfg.MaxValues),
		zap.Int64("max_steps", cfg.MaxSteps),
		zap.Duration("solve_timeout", cfg.SolveTimeout),
		zap.Bool("local_pruning", cfg.LocalPruning),
		zap.Int("cache_size", cfg.CacheSize),
	)

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
