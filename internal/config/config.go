// Package config loads service configuration from a YAML file, a .env file
// and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config is the full service configuration.
type Config struct {
	Source struct {
		Kind          string `yaml:"kind"`
		CSVPath       string `yaml:"csv_path"`
		PostgresDSN   string `yaml:"postgres_dsn"`
		PostgresTable string `yaml:"postgres_table"`
	} `yaml:"source"`

	Server struct {
		Addr               string        `yaml:"addr"`
		ReadTimeoutStr     string        `yaml:"read_timeout"`
		WriteTimeoutStr    string        `yaml:"write_timeout"`
		ShutdownTimeoutStr string        `yaml:"shutdown_timeout"`
		ReadTimeout        time.Duration `yaml:"-"`
		WriteTimeout       time.Duration `yaml:"-"`
		ShutdownTimeout    time.Duration `yaml:"-"`
	} `yaml:"server"`

	Prices struct {
		BaseURL            string        `yaml:"base_url"`
		RefreshIntervalStr string        `yaml:"refresh_interval"`
		TimeoutStr         string        `yaml:"timeout"`
		RetryCount         int           `yaml:"retry_count"`
		RetryWaitStr       string        `yaml:"retry_wait"`
		RefreshInterval    time.Duration `yaml:"-"`
		Timeout            time.Duration `yaml:"-"`
		RetryWait          time.Duration `yaml:"-"`
	} `yaml:"prices"`

	Avatar struct {
		BaseURL    string        `yaml:"base_url"`
		TimeoutStr string        `yaml:"timeout"`
		Timeout    time.Duration `yaml:"-"`
	} `yaml:"avatar"`

	Redis struct {
		// Addr empty disables the Redis avatar cache.
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTLStr   string        `yaml:"ttl"`
		TTL      time.Duration `yaml:"-"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	c := &Config{}
	c.Source.Kind = SourceCSV
	c.Source.CSVPath = "public/data/rfa_allocations.csv"
	c.Source.PostgresTable = "rfa_allocations"

	c.Server.Addr = ":8080"
	c.Server.ReadTimeoutStr = "15s"
	c.Server.WriteTimeoutStr = "30s"
	c.Server.ShutdownTimeoutStr = "10s"

	c.Prices.BaseURL = "https://api.berachain.com/"
	c.Prices.RefreshIntervalStr = "60s"
	c.Prices.TimeoutStr = "30s"
	c.Prices.RetryCount = 3
	c.Prices.RetryWaitStr = "1s"

	c.Avatar.BaseURL = "https://unavatar.io"
	c.Avatar.TimeoutStr = "10s"

	c.Redis.TTLStr = "24h"

	c.Logging.Level = "info"
	c.Logging.Format = "text"
	return c
}

// Load reads path (optional, may be empty), then .env, then the process
// environment, and parses durations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Existing environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Source.Kind = getEnv("RFA_SOURCE", c.Source.Kind)
	c.Source.CSVPath = getEnv("RFA_CSV_PATH", c.Source.CSVPath)
	c.Source.PostgresDSN = getEnv("POSTGRES_DSN", c.Source.PostgresDSN)
	c.Source.PostgresTable = getEnv("RFA_POSTGRES_TABLE", c.Source.PostgresTable)

	c.Server.Addr = getEnv("RFA_ADDR", c.Server.Addr)

	c.Prices.BaseURL = getEnv("BERACHAIN_API_URL", c.Prices.BaseURL)
	c.Prices.RefreshIntervalStr = getEnv("PRICE_REFRESH_INTERVAL", c.Prices.RefreshIntervalStr)
	c.Prices.RetryCount = getEnvInt("PRICE_RETRY_COUNT", c.Prices.RetryCount)

	c.Avatar.BaseURL = getEnv("AVATAR_BASE_URL", c.Avatar.BaseURL)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Redis.TTLStr = getEnv("REDIS_TTL", c.Redis.TTLStr)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

func (c *Config) parseDurations() error {
	fields := []struct {
		name string
		in   string
		out  *time.Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeoutStr, &c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeoutStr, &c.Server.WriteTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeoutStr, &c.Server.ShutdownTimeout},
		{"prices.refresh_interval", c.Prices.RefreshIntervalStr, &c.Prices.RefreshInterval},
		{"prices.timeout", c.Prices.TimeoutStr, &c.Prices.Timeout},
		{"prices.retry_wait", c.Prices.RetryWaitStr, &c.Prices.RetryWait},
		{"avatar.timeout", c.Avatar.TimeoutStr, &c.Avatar.Timeout},
		{"redis.ttl", c.Redis.TTLStr, &c.Redis.TTL},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.in)
		if err != nil {
			return fmt.Errorf("parse %s: %w", f.name, err)
		}
		*f.out = d
	}
	return nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Source.Kind) {
	case SourceCSV:
		if c.Source.CSVPath == "" {
			errs = append(errs, errors.New("source.csv_path is required for csv source"))
		}
	case SourcePostgres:
		if c.Source.PostgresDSN == "" {
			errs = append(errs, errors.New("source.postgres_dsn is required for postgres source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source.kind %q", c.Source.Kind))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Prices.RefreshInterval < time.Second {
		errs = append(errs, errors.New("prices.refresh_interval must be at least 1s"))
	}
	if c.Prices.RetryCount < 0 {
		errs = append(errs, errors.New("prices.retry_count must not be negative"))
	}
	if c.Redis.Addr != "" && c.Redis.TTL <= 0 {
		errs = append(errs, errors.New("redis.ttl must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
