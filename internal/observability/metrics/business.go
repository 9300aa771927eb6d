package metrics

import (
	"time"
)

// RecordPostsFetch records one fetch of the post collection.
// kind is empty on success, otherwise the fetch error kind.
func RecordPostsFetch(source, kind string, count int, duration time.Duration) {
	result := "success"
	if kind != "" {
		result = kind
	}
	PostsFetchTotal.WithLabelValues(source, result).Inc()
	PostsFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	if kind == "" {
		PostsCollectionSize.Set(float64(count))
	}
}

// RecordCacheRefresh records the resolution of a cache fetch.
func RecordCacheRefresh(key string, success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	CacheRefreshTotal.WithLabelValues(key, result).Inc()
}

// RecordCacheRefreshSkipped records a refresh skipped because one was in flight.
func RecordCacheRefreshSkipped(key string) {
	CacheRefreshSkippedTotal.WithLabelValues(key).Inc()
}

// RecordCacheStaleRead records a read served from a stale entry.
func RecordCacheStaleRead(key string) {
	CacheStaleReadsTotal.WithLabelValues(key).Inc()
}

// SetCacheSubscribers sets the subscriber gauge for key.
func SetCacheSubscribers(key string, n int) {
	CacheSubscribers.WithLabelValues(key).Set(float64(n))
}

// ViewMounted increments the active view gauge for surface.
func ViewMounted(surface string) {
	ListingViewsActive.WithLabelValues(surface).Inc()
}

// ViewClosed decrements the active view gauge for surface.
func ViewClosed(surface string) {
	ListingViewsActive.WithLabelValues(surface).Dec()
}
