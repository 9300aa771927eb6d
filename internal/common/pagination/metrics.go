package pagination

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts listing page requests served over HTTP.
	// Labels: status (HTTP status code), page_range (page bucket: 1-10, 11-50, etc.)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_page_requests_total",
			Help: "Total number of listing page requests",
		},
		[]string{"status", "page_range"},
	)

	// NavigationsTotal counts page navigations by action and whether the
	// requested page had to be clamped.
	// Labels: action (goto, next, previous, reset), clamped (true, false)
	NavigationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_page_navigations_total",
			Help: "Total number of page navigations",
		},
		[]string{"action", "clamped"},
	)

	// TotalCount tracks the size of the most recently paginated collection.
	TotalCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listing_posts_total_count",
			Help: "Current total number of posts in the listing",
		},
	)
)

// RecordRequest records a listing page request metric.
func RecordRequest(statusCode int, page int) {
	pageRange := getPageRangeBucket(page)
	RequestsTotal.WithLabelValues(
		fmt.Sprintf("%d", statusCode),
		pageRange,
	).Inc()
}

// RecordNavigation records one navigation.
// action should be one of: "goto", "next", "previous", "reset"
func RecordNavigation(action string, clamped bool) {
	NavigationsTotal.WithLabelValues(action, fmt.Sprintf("%t", clamped)).Inc()
}

// UpdateTotalCount updates the post count gauge.
func UpdateTotalCount(count int) {
	TotalCount.Set(float64(count))
}

// getPageRangeBucket returns the page range bucket for a given page number.
func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
