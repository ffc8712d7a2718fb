// Package config provides environment-driven configuration for the rentdesk server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration values.
type Config struct {
	StoreDriver     string
	DatabaseURL     Secret
	DBMaxConns      int
	SnapshotPath    string
	RedisURL        Secret
	CacheTTL        time.Duration
	Port            string
	MetricsPort     string
	ListenHost      string
	CORSOrigins     []string
	LogLevel        string
	Timezone        string
	DashboardFanout int
	OTLPEndpoint    string
	Environment     string
	BootstrapUsers  []BootstrapUser

	location *time.Location
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		StoreDriver:  envOrDefault("STORE_DRIVER", DriverPostgres),
		DatabaseURL:  Secret(envOrDefault("DATABASE_URL", "")),
		SnapshotPath: envOrDefault("SNAPSHOT_PATH", ""),
		RedisURL:     Secret(envOrDefault("REDIS_URL", "")),
		Port:         envOrDefault("PORT", "3040"),
		MetricsPort:  envOrDefault("METRICS_PORT", "9092"),
		ListenHost:   envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		Timezone:     envOrDefault("TIMEZONE", "UTC"),
		OTLPEndpoint: envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Environment:  envOrDefault("ENVIRONMENT", "development"),
	}

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "20"))
	if err != nil || maxConns < 2 || maxConns > 200 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 2 and 200")
	}
	cfg.DBMaxConns = maxConns

	fanout, err := strconv.Atoi(envOrDefault("DASHBOARD_FANOUT", "4"))
	if err != nil || fanout < 1 || fanout > 32 {
		return nil, fmt.Errorf("DASHBOARD_FANOUT must be an integer between 1 and 32")
	}
	cfg.DashboardFanout = fanout

	ttl, err := time.ParseDuration(envOrDefault("CACHE_TTL", "30s"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be a positive duration such as 30s")
	}
	cfg.CacheTTL = ttl

	users, err := parseBootstrapUsers(os.Getenv("BOOTSTRAP_USERS"))
	if err != nil {
		return nil, err
	}
	cfg.BootstrapUsers = users

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

// Location returns the time zone calendar days are bucketed in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}

	return c.location
}

// CacheEnabled reports whether a Redis cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL.Value() != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
