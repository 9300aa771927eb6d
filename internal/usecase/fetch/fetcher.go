package fetch

import (
	"context"

	"postpulse/internal/domain/entity"
)

// PostFetcher loads the full post collection in display order.
//
// Implementations must return one of *TransportError, *QueryError or
// *EmptyResultError on failure. A successful call with zero posts is valid.
type PostFetcher interface {
	FetchPosts(ctx context.Context) ([]entity.Post, error)
}

// FetcherFunc adapts a function to PostFetcher.
type FetcherFunc func(ctx context.Context) ([]entity.Post, error)

// FetchPosts calls f(ctx).
func (f FetcherFunc) FetchPosts(ctx context.Context) ([]entity.Post, error) {
	return f(ctx)
}
