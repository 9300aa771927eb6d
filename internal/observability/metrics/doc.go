// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the service's metrics:
//   - HTTP request metrics (duration, count, size)
//   - Post fetch metrics per content source
//   - Query cache refresh and subscriber metrics
//   - Listing view metrics
//
// All metrics are registered with the Prometheus default registry and exposed
// via the /metrics endpoint.
//
// Example usage:
//
//	import "postpulse/internal/observability/metrics"
//
//	start := time.Now()
//	posts, err := fetcher.FetchPosts(ctx)
//	metrics.RecordPostsFetch("graphql", fetch.KindOf(err), len(posts), time.Since(start))
package metrics
