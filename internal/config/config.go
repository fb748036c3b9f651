// Package config defines service configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: trace, debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Environment is reported by the health endpoint.
	Environment string `koanf:"environment"`

	AppName    string `koanf:"app_name"`
	AppVersion string `koanf:"app_version"`

	// CORSOrigin is a comma separated list of allowed origins.
	CORSOrigin string `koanf:"cors_origin"`

	// DatabaseURL selects the Postgres catalog. Empty keeps the catalog in
	// memory, loaded from the embedded seed.
	DatabaseURL string `koanf:"database_url"`

	// CatalogCacheSize and CatalogCacheTTL bound the component lookup cache.
	// A size of zero disables the cache.
	CatalogCacheSize int           `koanf:"catalog_cache_size"`
	CatalogCacheTTL  time.Duration `koanf:"catalog_cache_ttl"`

	// BenchmarksPath points at a benchmark table replacing the embedded one.
	BenchmarksPath string `koanf:"benchmarks_path"`

	// RateLimitPerMinute caps write requests per client IP.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`

	// RecommendLimit is the default number of recommendations returned.
	RecommendLimit int `koanf:"recommend_limit"`

	// PriceSyncInterval refreshes product prices from PCPartPicker while
	// serving. Zero turns the background sync off.
	PriceSyncInterval time.Duration `koanf:"price_sync_interval"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Addr:               ":3000",
		LogLevel:           "info",
		Environment:        "development",
		AppName:            "SmartPC API",
		AppVersion:         "1.0.0",
		CORSOrigin:         "*",
		CatalogCacheSize:   1024,
		CatalogCacheTTL:    5 * time.Minute,
		RateLimitPerMinute: 60,
		RecommendLimit:     3,
	}
}

// Validate checks the values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, ok := levels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.CatalogCacheSize < 0 {
		return fmt.Errorf("%w: catalog_cache_size must not be negative", ErrInvalidConfig)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("%w: rate_limit_per_minute must be positive", ErrInvalidConfig)
	}
	if c.RecommendLimit < 1 || c.RecommendLimit > 10 {
		return fmt.Errorf("%w: recommend_limit must be between 1 and 10", ErrInvalidConfig)
	}
	if c.PriceSyncInterval < 0 {
		return fmt.Errorf("%w: price_sync_interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

var levels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Level maps LogLevel to the fiber logger level.
func (c *Config) Level() log.Level {
	if l, ok := levels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return log.LevelInfo
}

// Origins returns CORSOrigin in the form the CORS middleware expects.
func (c *Config) Origins() string {
	parts := strings.Split(c.CORSOrigin, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}
