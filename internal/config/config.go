package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/equipartition/internal/logging"
	"github.com/eugenenazirov/equipartition/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultMaxValues      = 40
	defaultMaxSteps       = 5_000_000
	defaultSolveTimeout   = 2 * time.Second
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	MaxValues            int
	MaxSteps             int64
	SolveTimeout         time.Duration
	LocalPruning         bool
	CacheSize            int
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	MetricsEnabled       bool
	LogLevel             string
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
// Pointer fields distinguish "absent" from an explicit zero value.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	Solver               yamlSolver    `yaml:"solver"`
	CacheSize            *int          `yaml:"cache_size"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	MetricsEnabled       *bool         `yaml:"metrics_enabled"`
	LogLevel             string        `yaml:"log_level"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlSolver represents the solver section in YAML.
type yamlSolver struct {
	MaxValues    int    `yaml:"max_values"`
	MaxSteps     *int64 `yaml:"max_steps"`
	Timeout      string `yaml:"timeout"`
	LocalPruning *bool  `yaml:"local_pruning"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	MaxValues      *int
	MaxSteps       *int64
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables
	applyEnvConfig(&cfg)

	// Load from YAML file if specified (overrides environment)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		MaxValues:            defaultMaxValues,
		MaxSteps:             defaultMaxSteps,
		SolveTimeout:         defaultSolveTimeout,
		CacheSize:            storage.DefaultCapacity,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		MetricsEnabled:       true,
		LogLevel:             defaultLogLevel,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.Solver.MaxValues != 0 {
		cfg.MaxValues = yamlCfg.Solver.MaxValues
	}
	if yamlCfg.Solver.MaxSteps != nil {
		cfg.MaxSteps = *yamlCfg.Solver.MaxSteps
	}
	if yamlCfg.Solver.LocalPruning != nil {
		cfg.LocalPruning = *yamlCfg.Solver.LocalPruning
	}
	if yamlCfg.CacheSize != nil {
		cfg.CacheSize = *yamlCfg.CacheSize
	}

	durations := []struct {
		raw    string
		target *time.Duration
		name   string
	}{
		{yamlCfg.Solver.Timeout, &cfg.SolveTimeout, "solver.timeout"},
		{yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod, "shutdown_grace_period"},
		{yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout, "read_header_timeout"},
		{yamlCfg.WriteTimeout, &cfg.WriteTimeout, "write_timeout"},
		{yamlCfg.IdleTimeout, &cfg.IdleTimeout, "idle_timeout"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.target = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.MetricsEnabled != nil {
		cfg.MetricsEnabled = *yamlCfg.MetricsEnabled
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
// Malformed values are ignored and the previous setting is kept.
func applyEnvConfig(cfg *Config) {
	if port := env("PORT"); port != "" {
		cfg.Port = port
	}

	if raw := env("MAX_VALUES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.MaxValues = value
		}
	}

	if raw := env("MAX_STEPS"); raw != "" {
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil && value >= 0 {
			cfg.MaxSteps = value
		}
	}

	if raw := env("SOLVE_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			cfg.SolveTimeout = d
		}
	}

	if raw := env("LOCAL_PRUNING"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.LocalPruning = value
		}
	}

	if raw := env("CACHE_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.CacheSize = value
		}
	}

	if raw := env("METRICS_ENABLED"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.MetricsEnabled = value
		}
	}

	if level := env("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if rps := env("RATE_LIMIT_RPS"); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := env("RATE_LIMIT_BURST"); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.MaxValues != nil {
		cfg.MaxValues = *overrides.MaxValues
	}

	if overrides.MaxSteps != nil {
		cfg.MaxSteps = *overrides.MaxSteps
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.MaxValues <= 0 {
		return fmt.Errorf("max values must be positive, got %d", cfg.MaxValues)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("max steps must be >= 0, got %d", cfg.MaxSteps)
	}
	if cfg.SolveTimeout < 0 {
		return fmt.Errorf("solve timeout must be >= 0, got %s", cfg.SolveTimeout)
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("cache size must be >= 0, got %d", cfg.CacheSize)
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
