// Package graphql implements the post fetcher against a WPGraphQL endpoint.
// Every request passes through a rate limiter and a circuit breaker, and the
// whole call is retried with backoff on transient transport failures.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"postpulse/internal/domain/entity"
	"postpulse/internal/observability/tracing"
	"postpulse/internal/resilience/circuitbreaker"
	"postpulse/internal/resilience/retry"
	"postpulse/internal/usecase/fetch"
)

// ErrBodyTooLarge is wrapped when a response exceeds Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// Client issues PostsQuery and decodes the result.
// It is safe for concurrent use; one instance serves the whole process.
type Client struct {
	config         Config
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	limiter        *RateLimiter
}

var _ fetch.PostFetcher = (*Client)(nil)

// NewClient creates a Client. A nil httpClient gets one with config.Timeout.
// Query and empty-result answers count as breaker successes: the endpoint
// responded, so there is nothing to shed load from.
func NewClient(config Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}

	retryConfig := retry.GraphQLConfig()
	retryConfig.ShouldRetry = shouldRetry

	cbConfig := circuitbreaker.GraphQLConfig()
	cbConfig.IsSuccessful = fetch.IsRemoteAnswer

	return &Client{
		config:         config,
		httpClient:     httpClient,
		circuitBreaker: circuitbreaker.New(cbConfig),
		retryConfig:    retryConfig,
		limiter:        NewRateLimiter(config.RequestsPerSecond, config.Burst),
	}
}

// CircuitBreaker exposes the client's breaker for health reporting.
func (c *Client) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return c.circuitBreaker
}

// FetchPosts runs PostsQuery and returns the collection in response order.
// Errors are always *fetch.TransportError, *fetch.QueryError or
// *fetch.EmptyResultError.
func (c *Client) FetchPosts(ctx context.Context) ([]entity.Post, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "graphql.FetchPosts")
	defer span.End()
	span.SetAttributes(attribute.String("graphql.operation", "GetPosts"))

	var posts []entity.Post
	attempts := 0

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		attempts++
		if err := c.limiter.Wait(ctx); err != nil {
			return &fetch.TransportError{Op: "ratelimit", Err: err}
		}

		result, err := circuitbreaker.Do(c.circuitBreaker, func() ([]entity.Post, error) {
			return c.doFetch(ctx)
		})
		if err != nil {
			if circuitbreaker.IsOpenError(err) {
				slog.Warn("graphql circuit breaker open, request rejected",
					slog.String("service", c.circuitBreaker.Name()),
					slog.String("state", c.circuitBreaker.State().String()))
				return &fetch.TransportError{Op: "circuit", Err: err}
			}
			return err
		}

		posts = result
		return nil
	})

	span.SetAttributes(attribute.Int("graphql.attempts", attempts))

	if retryErr != nil {
		err := classify(retryErr)
		span.RecordError(err)
		span.SetStatus(codes.Error, fetch.KindOf(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("graphql.posts", len(posts)))
	return posts, nil
}

// shouldRetry treats a body cut off mid-read as transient. An oversized body
// will be oversized again.
func shouldRetry(err error) bool {
	if errors.Is(err, ErrBodyTooLarge) {
		return false
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || retry.IsRetryable(err)
}

// classify unwraps retry bookkeeping so callers see the typed failure of the
// last attempt.
func classify(err error) error {
	var queryErr *fetch.QueryError
	if errors.As(err, &queryErr) {
		return queryErr
	}
	var emptyErr *fetch.EmptyResultError
	if errors.As(err, &emptyErr) {
		return emptyErr
	}
	var transportErr *fetch.TransportError
	if errors.As(err, &transportErr) {
		return transportErr
	}
	return &fetch.TransportError{Op: "request", Err: err}
}

// doFetch performs one request without retry or circuit breaker.
func (c *Client) doFetch(ctx context.Context) ([]entity.Post, error) {
	payload, err := json.Marshal(request{Query: PostsQuery})
	if err != nil {
		return nil, &fetch.TransportError{Op: "request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &fetch.TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &fetch.TransportError{Op: "request", Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Debug("failed to close graphql response body", slog.Any("error", cerr))
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

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodyBytes+1))
	if err != nil {
		return nil, &fetch.TransportError{Op: "read", Err: err}
	}
	if int64(len(body)) > c.config.MaxBodyBytes {
		return nil, &fetch.TransportError{
			Op:  "read",
			Err: fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, c.config.MaxBodyBytes),
		}
	}

	return decodeEnvelope(body)
}
