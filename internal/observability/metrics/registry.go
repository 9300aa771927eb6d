package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Post fetch metrics track calls to the content source
var (
	// PostsFetchTotal counts fetches by source and result.
	// result is "success" or one of the fetch error kinds.
	PostsFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posts_fetch_total",
			Help: "Total number of post collection fetches",
		},
		[]string{"source", "result"},
	)

	// PostsFetchDuration measures time to load the collection
	PostsFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "posts_fetch_duration_seconds",
			Help:    "Time taken to fetch the post collection",
			Buckets: []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"source"},
	)

	// PostsCollectionSize tracks the size of the last fetched collection
	PostsCollectionSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "posts_collection_size",
			Help: "Number of posts in the most recently fetched collection",
		},
	)
)

// Cache metrics track the query cache entry lifecycle
var (
	// CacheRefreshTotal counts cache fetch resolutions by result (success, error)
	CacheRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_refresh_total",
			Help: "Total number of query cache fetch resolutions",
		},
		[]string{"key", "result"},
	)

	// CacheRefreshSkippedTotal counts refreshes skipped because a fetch was in flight
	CacheRefreshSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_refresh_skipped_total",
			Help: "Total number of refreshes skipped due to an in-flight fetch",
		},
		[]string{"key"},
	)

	// CacheStaleReadsTotal counts reads served from a stale entry
	CacheStaleReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_stale_reads_total",
			Help: "Total number of reads served while the entry was stale",
		},
		[]string{"key"},
	)

	// CacheSubscribers tracks active cache subscribers
	CacheSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "query_cache_subscribers",
			Help: "Number of active query cache subscribers",
		},
		[]string{"key"},
	)
)

// Listing metrics track mounted views
var (
	// ListingViewsActive tracks mounted pagination views by surface (http, websocket, cli)
	ListingViewsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "listing_views_active",
			Help: "Number of mounted listing views",
		},
		[]string{"surface"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
