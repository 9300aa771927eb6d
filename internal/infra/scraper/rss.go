// Package scraper adapts RSS/Atom feeds into the post collection for sites
// that publish a feed instead of a GraphQL endpoint.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"postpulse/internal/domain/entity"
	"postpulse/internal/observability/tracing"
	"postpulse/internal/resilience/circuitbreaker"
	"postpulse/internal/resilience/retry"
	"postpulse/internal/usecase/fetch"
)

const defaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// ErrBodyTooLarge is wrapped when a feed exceeds RSSConfig.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("feed body too large")

// RSSConfig configures an RSSSource.
type RSSConfig struct {
	FeedURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxBodyBytes   int64
	DenyPrivateIPs bool
}

// RSSSource loads the post collection from an RSS or Atom feed.
// Feed order is kept as display order.
type RSSSource struct {
	config         RSSConfig
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

var _ fetch.PostFetcher = (*RSSSource)(nil)

// NewRSSSource creates an RSSSource. A nil client gets NewHTTPClient.
func NewRSSSource(config RSSConfig, client *http.Client) *RSSSource {
	if client == nil {
		client = NewHTTPClient(config.Timeout, config.DenyPrivateIPs)
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaultMaxBodySize
	}
	if config.UserAgent == "" {
		config.UserAgent = "PostPulseBot/1.0"
	}

	cbConfig := circuitbreaker.FeedConfig()
	cbConfig.IsSuccessful = fetch.IsRemoteAnswer

	return &RSSSource{
		config:         config,
		client:         client,
		circuitBreaker: circuitbreaker.New(cbConfig),
		retryConfig:    retry.FeedConfig(),
	}
}

// CircuitBreaker exposes the source's breaker for health reporting.
func (s *RSSSource) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return s.circuitBreaker
}

// FetchPosts retrieves and parses the feed. Failures are *fetch.TransportError.
func (s *RSSSource) FetchPosts(ctx context.Context) ([]entity.Post, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "rss.FetchPosts")
	defer span.End()

	var posts []entity.Post
	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		result, err := circuitbreaker.Do(s.circuitBreaker, func() ([]entity.Post, error) {
			return s.doFetch(ctx)
		})
		if err != nil {
			if circuitbreaker.IsOpenError(err) {
				slog.Warn("feed circuit breaker open, request rejected",
					slog.String("service", s.circuitBreaker.Name()),
					slog.String("state", s.circuitBreaker.State().String()))
				return &fetch.TransportError{Op: "circuit", Err: err}
			}
			return err
		}
		posts = result
		return nil
	})

	if retryErr != nil {
		err := asTransportError(retryErr)
		span.RecordError(err)
		span.SetStatus(codes.Error, fetch.KindOf(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("rss.posts", len(posts)))
	return posts, nil
}

func asTransportError(err error) error {
	var transportErr *fetch.TransportError
	if errors.As(err, &transportErr) {
		return transportErr
	}
	return &fetch.TransportError{Op: "request", Err: err}
}

// doFetch performs one request without retry or circuit breaker.
func (s *RSSSource) doFetch(ctx context.Context) ([]entity.Post, error) {
	if err := validateURL(s.config.FeedURL, s.config.DenyPrivateIPs); err != nil {
		return nil, &fetch.TransportError{Op: "validate", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.FeedURL, nil)
	if err != nil {
		return nil, &fetch.TransportError{Op: "request", Err: err}
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &fetch.TransportError{Op: "request", Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Debug("failed to close feed response body", slog.Any("error", cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &fetch.TransportError{
			Op:         "status",
			StatusCode: resp.StatusCode,
			Err:        &retry.HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)},
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.config.MaxBodyBytes+1))
	if err != nil {
		return nil, &fetch.TransportError{Op: "read", Err: err}
	}
	if int64(len(body)) > s.config.MaxBodyBytes {
		return nil, &fetch.TransportError{
			Op:  "read",
			Err: fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, s.config.MaxBodyBytes),
		}
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &fetch.TransportError{Op: "decode", Err: err}
	}

	posts := toPosts(feed)
	if err := entity.ValidateCollection(posts); err != nil {
		return nil, &fetch.TransportError{Op: "validate", Err: err}
	}
	return posts, nil
}

func toPosts(feed *gofeed.Feed) []entity.Post {
	posts := make([]entity.Post, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		p := entity.Post{
			ID:            itemID(it),
			Title:         strings.TrimSpace(it.Title),
			Excerpt:       entity.HTML(it.Description),
			Content:       entity.HTML(it.Content),
			Slug:          slugFor(it.Link, it.Title),
			Source:        entity.NewAttribution(feed.Title, it.Link),
			FeaturedImage: featuredImage(it),
		}
		switch {
		case it.PublishedParsed != nil:
			p.Date = it.PublishedParsed.UTC()
		case it.UpdatedParsed != nil:
			p.Date = it.UpdatedParsed.UTC()
		}
		if len(it.Categories) > 0 {
			p.Category = strings.TrimSpace(it.Categories[0])
		}
		posts = append(posts, p)
	}
	uniqueSlugs(posts)
	return posts
}

// uniqueSlugs suffixes derived slugs that collide, in feed order: the second
// "hello" becomes "hello-2".
func uniqueSlugs(posts []entity.Post) {
	used := make(map[string]bool, len(posts))
	for i := range posts {
		base := posts[i].Slug
		if base == "" {
			continue
		}
		slug := base
		for n := 2; used[slug]; n++ {
			slug = fmt.Sprintf("%s-%d", base, n)
		}
		used[slug] = true
		posts[i].Slug = slug
	}
}

// itemID prefers the GUID, then the link.
func itemID(it *gofeed.Item) string {
	if id := strings.TrimSpace(it.GUID); id != "" {
		return id
	}
	return strings.TrimSpace(it.Link)
}
