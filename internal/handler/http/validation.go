package http

import (
	"net/http"

	"postpulse/internal/handler/http/respond"
)

const (
	maxPathLength  = 2048
	maxQueryLength = 1024
)

// InputValidation rejects requests with oversized paths or query strings
// and caps request bodies at 1MB. The API is read-only, so bodies are never
// expected to be large.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathLength {
				respond.JSON(w, http.StatusRequestURITooLong, map[string]string{"error": "URI too long"})
				return
			}
			if len(r.URL.RawQuery) > maxQueryLength {
				respond.JSON(w, http.StatusRequestURITooLong, map[string]string{"error": "query string too long"})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
			next.ServeHTTP(w, r)
		})
	}
}
