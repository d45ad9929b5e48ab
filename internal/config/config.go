// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	score "github.com/mshelton/car-value-tracker/pkg/scorer"
)

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	LocalStore LocalStoreConfig `yaml:"localstore"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Auth       AuthConfig       `yaml:"auth"`
	Jobs       JobsConfig       `yaml:"jobs"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RateLimit caps requests per client; zero disables limiting.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines token-bucket rate limiting settings.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`

	// InMemory swaps Postgres for the in-process store. Useful for demos
	// and tests; nothing survives a restart.
	InMemory bool `yaml:"in_memory"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// LocalStoreConfig defines the SQLite-backed workspace used by the CLI's
// local mode.
type LocalStoreConfig struct {
	Path string `yaml:"path"`
}

// ScoringConfig defines rating thresholds and fuel-adjustment settings.
type ScoringConfig struct {
	Thresholds score.Thresholds `yaml:"thresholds"`

	// FuelPricePerGallon enables fuel-adjusted scoring when positive.
	FuelPricePerGallon float64 `yaml:"fuel_price_per_gallon"`

	// MaxPrice rejects listings priced above this bound; zero disables
	// the clamp.
	MaxPrice float64 `yaml:"max_price"`
}

// AuthConfig defines session token settings.
type AuthConfig struct {
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// JobsConfig defines background job schedules (cron expressions).
type JobsConfig struct {
	SessionPurgeSchedule string `yaml:"session_purge_schedule"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. A .env file alongside the process, if present,
// is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyScoringDefaults(&cfg.Scoring)
	applyAuthDefaults(&cfg.Auth)
	applyJobsDefaults(&cfg.Jobs)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.RateLimit.PerSecond > 0 && s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 20
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyScoringDefaults(s *ScoringConfig) {
	zero := score.Thresholds{}
	if s.Thresholds == zero {
		s.Thresholds = score.DefaultThresholds()
	}
}

func applyAuthDefaults(a *AuthConfig) {
	if a.TokenTTL == 0 {
		a.TokenTTL = 24 * time.Hour
	}
}

func applyJobsDefaults(j *JobsConfig) {
	if j.SessionPurgeSchedule == "" {
		j.SessionPurgeSchedule = "@hourly"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if !cfg.Database.InMemory {
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required"))
		}
	}

	if !cfg.Scoring.Thresholds.Valid() {
		errs = append(errs, fmt.Errorf(
			"scoring.thresholds must be positive and strictly increasing"))
	}
	if cfg.Scoring.FuelPricePerGallon < 0 {
		errs = append(errs, fmt.Errorf("scoring.fuel_price_per_gallon must not be negative"))
	}
	if cfg.Scoring.MaxPrice < 0 {
		errs = append(errs, fmt.Errorf("scoring.max_price must not be negative"))
	}

	if cfg.Auth.TokenTTL < 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must not be negative"))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf(
			"logging.level must be one of: debug, info, warn, error (got %q)",
			cfg.Logging.Level))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf(
			"logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
