package graphql

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter implements a token bucket for outbound requests.
// Many views share one client, so the limiter keeps scheduled refreshes and
// retries from hammering the CMS.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a RateLimiter allowing requestsPerSecond sustained
// with bursts of up to burst requests. requestsPerSecond <= 0 means unlimited.
//
// Example:
//
//	limiter := NewRateLimiter(2.0, 4) // 2 req/s with burst of 4
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	r := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		r = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(r, burst)}
}

// Wait blocks until a token is available or the context is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
