// Package source builds the configured remote post source.
package source

import (
	"fmt"
	"log/slog"

	"postpulse/internal/config"
	"postpulse/internal/infra/graphql"
	"postpulse/internal/infra/scraper"
	"postpulse/internal/resilience/circuitbreaker"
	"postpulse/internal/usecase/fetch"
)

// Source is an instrumented fetcher plus the breaker guarding it.
type Source struct {
	Kind    string
	Fetcher fetch.PostFetcher
	Circuit *circuitbreaker.CircuitBreaker
}

// New creates the source selected by cfg.Kind, wrapped in fetch.Service.
func New(cfg config.SourceConfig, logger *slog.Logger) (*Source, error) {
	switch cfg.Kind {
	case config.SourceGraphQL:
		gcfg := graphql.DefaultConfig(cfg.Endpoint)
		gcfg.Timeout = cfg.Timeout
		gcfg.RequestsPerSecond = cfg.RequestsPerSecond
		gcfg.Burst = cfg.Burst
		if cfg.UserAgent != "" {
			gcfg.UserAgent = cfg.UserAgent
		}
		if err := gcfg.Validate(); err != nil {
			return nil, err
		}
		client := graphql.NewClient(gcfg, nil)
		return &Source{
			Kind:    cfg.Kind,
			Fetcher: fetch.NewService(client, cfg.Kind, logger),
			Circuit: client.CircuitBreaker(),
		}, nil

	case config.SourceRSS:
		rss := scraper.NewRSSSource(scraper.RSSConfig{
			FeedURL:        cfg.Endpoint,
			UserAgent:      cfg.UserAgent,
			Timeout:        cfg.Timeout,
			DenyPrivateIPs: cfg.DenyPrivateIPs,
		}, nil)
		return &Source{
			Kind:    cfg.Kind,
			Fetcher: fetch.NewService(rss, cfg.Kind, logger),
			Circuit: rss.CircuitBreaker(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
