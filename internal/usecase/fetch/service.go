package fetch

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"postpulse/internal/domain/entity"
	"postpulse/internal/handler/http/respond"
	"postpulse/internal/observability/metrics"
	"postpulse/internal/observability/tracing"
)

// Service instruments a PostFetcher with logging, metrics and a span.
type Service struct {
	Fetcher PostFetcher
	Source  string // label used in logs and metrics, e.g. "graphql" or "rss"
	Logger  *slog.Logger
}

// NewService creates a Service around fetcher.
func NewService(fetcher PostFetcher, source string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Fetcher: fetcher, Source: source, Logger: logger}
}

// FetchPosts loads the collection and records the outcome.
func (s *Service) FetchPosts(ctx context.Context) ([]entity.Post, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "fetch.FetchPosts")
	defer span.End()
	span.SetAttributes(attribute.String("posts.source", s.Source))

	start := time.Now()
	posts, err := s.Fetcher.FetchPosts(ctx)
	duration := time.Since(start)

	if err != nil {
		kind := KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		metrics.RecordPostsFetch(s.Source, kind, 0, duration)
		s.Logger.WarnContext(ctx, "post fetch failed",
			slog.String("source", s.Source),
			slog.String("error_kind", kind),
			slog.String("error", respond.SanitizeError(err)),
			slog.Duration("duration", duration))
		return nil, err
	}

	span.SetAttributes(attribute.Int("posts.count", len(posts)))
	metrics.RecordPostsFetch(s.Source, "", len(posts), duration)
	s.Logger.InfoContext(ctx, "post fetch completed",
		slog.String("source", s.Source),
		slog.Int("posts", len(posts)),
		slog.Duration("duration", duration))
	return posts, nil
}
