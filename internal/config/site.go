// Package config loads the postpulse site configuration from a YAML file
// and applies environment overrides on top of it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"postpulse/internal/domain/entity"
	pkgconfig "postpulse/internal/pkg/config"
)

// Source kinds.
const (
	SourceGraphQL = "graphql"
	SourceRSS     = "rss"
)

// Limits applied by validation.
const (
	MaxPageSize        = 50
	MaxSummaryWords    = 500
	MaxShutdownTimeout = time.Minute
)

// SiteConfig is the postpulse configuration file.
type SiteConfig struct {
	Source  SourceConfig  `yaml:"source"`
	Cache   CacheConfig   `yaml:"cache"`
	Listing ListingConfig `yaml:"listing"`
	Server  ServerConfig  `yaml:"server"`
}

// SourceConfig selects and tunes the remote post source.
type SourceConfig struct {
	Kind              string        `yaml:"kind"`
	Endpoint          string        `yaml:"endpoint"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	DenyPrivateIPs    bool          `yaml:"deny_private_ips"`
}

// CacheConfig controls freshness of the shared post collection.
type CacheConfig struct {
	StaleTime       time.Duration `yaml:"stale_time"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	RefreshSchedule string        `yaml:"refresh_schedule"`
}

// ListingConfig controls how the collection is paged and summarized.
type ListingConfig struct {
	PageSize     int `yaml:"page_size"`
	SummaryWords int `yaml:"summary_words"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	RateLimit       int           `yaml:"rate_limit"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
	// CORSAllowedOrigins lists the render-layer origins allowed to call the API.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// DefaultSiteConfig returns the configuration used when no file is given.
// The endpoint has no default and must be configured.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Source: SourceConfig{
			Kind:              SourceGraphQL,
			Timeout:           10 * time.Second,
			UserAgent:         "PostPulse/1.0",
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Cache: CacheConfig{
			StaleTime:       60 * time.Second,
			FetchTimeout:    30 * time.Second,
			RefreshSchedule: "@every 1m0s",
		},
		Listing: ListingConfig{
			PageSize:     5,
			SummaryWords: 40,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
			RequestTimeout:  15 * time.Second,
			RateLimit:       120,
			RateLimitWindow: time.Minute,
		},
	}
}

var siteMetrics = sync.OnceValue(func() *pkgconfig.ConfigMetrics {
	return pkgconfig.NewConfigMetrics("postpulse")
})

// Path returns CONFIG_PATH, or def when it is unset.
func Path(def string) string {
	return pkgconfig.LoadEnvString("CONFIG_PATH", def)
}

// LoadSiteConfig reads path (skipped when empty), applies environment
// overrides and validates the result. Invalid overrides fall back to the
// file value with a logged warning; an invalid final configuration is an error.
// The path parameter comes from a trusted source (flag or CONFIG_PATH).
func LoadSiteConfig(path string, logger *slog.Logger) (*SiteConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := DefaultSiteConfig()

	if path != "" {
		// #nosec G304 -- path is provided by trusted source (CLI arg or env), not user input
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	warnings := cfg.applyEnv(siteMetrics())
	for _, w := range warnings {
		logger.Warn("configuration fallback applied", slog.String("warning", w))
	}
	siteMetrics().SetFallbackActive(len(warnings) > 0)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	siteMetrics().RecordLoadTimestamp()
	return &cfg, nil
}

// decodeYAML rejects unknown keys so typos surface at startup.
func decodeYAML(data []byte, cfg *SiteConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overlays environment variables and returns fallback warnings.
func (c *SiteConfig) applyEnv(m *pkgconfig.ConfigMetrics) []string {
	var warnings []string
	record := func(field string, r pkgconfig.ConfigLoadResult) pkgconfig.ConfigLoadResult {
		if m.RecordResult(field, r) {
			warnings = append(warnings, r.Warnings...)
		}
		return r
	}

	c.Source.Kind = record("source_kind", pkgconfig.LoadEnvWithFallback("POSTS_SOURCE_KIND", c.Source.Kind,
		func(v string) error { return pkgconfig.ValidateOneOf(v, SourceGraphQL, SourceRSS) })).Value.(string)
	c.Source.Endpoint = record("source_endpoint", pkgconfig.LoadEnvWithFallback("POSTS_ENDPOINT", c.Source.Endpoint,
		entity.ValidateEndpoint)).Value.(string)
	c.Source.Timeout = record("source_timeout", pkgconfig.LoadEnvDuration("POSTS_TIMEOUT", c.Source.Timeout,
		pkgconfig.ValidatePositiveDuration)).Value.(time.Duration)
	c.Source.DenyPrivateIPs = record("source_deny_private_ips", pkgconfig.LoadEnvBool("POSTS_DENY_PRIVATE_IPS",
		c.Source.DenyPrivateIPs)).Value.(bool)
	c.Cache.StaleTime = record("cache_stale_time", pkgconfig.LoadEnvDuration("CACHE_STALE_TIME", c.Cache.StaleTime,
		pkgconfig.ValidatePositiveDuration)).Value.(time.Duration)
	c.Cache.RefreshSchedule = record("cache_refresh_schedule", pkgconfig.LoadEnvWithFallback("CACHE_REFRESH_SCHEDULE", c.Cache.RefreshSchedule,
		pkgconfig.ValidateCronSchedule)).Value.(string)
	c.Listing.PageSize = record("listing_page_size", pkgconfig.LoadEnvInt("LISTING_PAGE_SIZE", c.Listing.PageSize,
		func(v int) error { return pkgconfig.ValidateIntRange(v, 1, MaxPageSize) })).Value.(int)
	c.Listing.SummaryWords = record("listing_summary_words", pkgconfig.LoadEnvInt("LISTING_SUMMARY_WORDS", c.Listing.SummaryWords,
		func(v int) error { return pkgconfig.ValidateIntRange(v, 1, MaxSummaryWords) })).Value.(int)
	c.Server.Addr = pkgconfig.LoadEnvString("HTTP_ADDR", c.Server.Addr)
	c.Server.ShutdownTimeout = record("server_shutdown_timeout", pkgconfig.LoadEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout,
		func(d time.Duration) error { return pkgconfig.ValidateDuration(d, time.Second, MaxShutdownTimeout) })).Value.(time.Duration)
	if raw := pkgconfig.LoadEnvString("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		c.Server.CORSAllowedOrigins = splitList(raw)
	}

	return warnings
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration as a whole.
func (c *SiteConfig) Validate() error {
	if err := pkgconfig.ValidateOneOf(c.Source.Kind, SourceGraphQL, SourceRSS); err != nil {
		return fmt.Errorf("source kind: %w", err)
	}
	if err := entity.ValidateEndpoint(c.Source.Endpoint); err != nil {
		return fmt.Errorf("source endpoint: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Source.Timeout); err != nil {
		return fmt.Errorf("source timeout: %w", err)
	}
	if c.Source.RequestsPerSecond > 0 && c.Source.Burst < 1 {
		return fmt.Errorf("source burst must be at least 1 when requests_per_second is set")
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Cache.StaleTime); err != nil {
		return fmt.Errorf("cache stale_time: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Cache.FetchTimeout); err != nil {
		return fmt.Errorf("cache fetch_timeout: %w", err)
	}
	if c.Cache.RefreshSchedule != "" {
		if err := pkgconfig.ValidateCronSchedule(c.Cache.RefreshSchedule); err != nil {
			return fmt.Errorf("cache refresh_schedule: %w", err)
		}
	}
	if err := pkgconfig.ValidateIntRange(c.Listing.PageSize, 1, MaxPageSize); err != nil {
		return fmt.Errorf("listing page_size: %w", err)
	}
	if err := pkgconfig.ValidateIntRange(c.Listing.SummaryWords, 1, MaxSummaryWords); err != nil {
		return fmt.Errorf("listing summary_words: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if err := pkgconfig.ValidateDuration(c.Server.ShutdownTimeout, time.Second, MaxShutdownTimeout); err != nil {
		return fmt.Errorf("server shutdown_timeout: %w", err)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server rate_limit cannot be negative")
	}
	if c.Server.RateLimit > 0 {
		if err := pkgconfig.ValidatePositiveDuration(c.Server.RateLimitWindow); err != nil {
			return fmt.Errorf("server rate_limit_window: %w", err)
		}
	}
	return nil
}
