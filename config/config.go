package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hold     HoldConfig     `yaml:"hold"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	// CacheTTLSeconds bounds how stale the availability read path may be.
	// Correctness does not depend on it; CreateHold re-checks under lock.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	// EnableCheckConstraints adds a database-level CHECK on the inventory
	// ledger (postgres only). The application enforces the invariant itself;
	// the constraint catches any write that bypasses the engine.
	EnableCheckConstraints bool `yaml:"enable_check_constraints"`
}

// HoldConfig holds the soft-reservation parameters.
type HoldConfig struct {
	TTLMinutes int           `yaml:"ttl_minutes"`
	TTL        time.Duration `yaml:"-"` // Ignored by YAML parser
	MaxRetries int           `yaml:"max_retries"`
}

// SweeperConfig holds the expiry sweeper parameters.
type SweeperConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	BatchSize       int           `yaml:"batch_size"`
	Workers         int           `yaml:"workers"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 5
	}

	if cfg.Hold.TTLMinutes <= 0 {
		cfg.Hold.TTLMinutes = 15
	}
	cfg.Hold.TTL = time.Duration(cfg.Hold.TTLMinutes) * time.Minute
	if cfg.Hold.MaxRetries <= 0 {
		cfg.Hold.MaxRetries = 3
	}

	if cfg.Sweeper.IntervalSeconds <= 0 {
		cfg.Sweeper.IntervalSeconds = 30
	}
	cfg.Sweeper.Interval = time.Duration(cfg.Sweeper.IntervalSeconds) * time.Second
	if cfg.Sweeper.BatchSize <= 0 {
		cfg.Sweeper.BatchSize = 100
	}
	if cfg.Sweeper.Workers <= 0 {
		cfg.Sweeper.Workers = 4
	}

	return &cfg, nil
}
