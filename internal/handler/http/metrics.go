package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"postpulse/internal/handler/http/pathutil"
	"postpulse/internal/handler/http/responsewriter"
	"postpulse/internal/observability/metrics"
)

// MetricsMiddleware records request count, latency, response size and
// in-flight requests. Paths are normalized through pathutil so labels stay bounded.
// Upgraded websocket connections are counted with status 101 once they close.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		normalizedPath := pathutil.NormalizePath(r.URL.Path)
		rw := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start)

		metrics.RecordHTTPRequest(r.Method, normalizedPath, strconv.Itoa(rw.StatusCode()), duration, rw.BytesWritten())
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
