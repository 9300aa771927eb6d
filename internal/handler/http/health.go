// Package http holds the HTTP server plumbing: middleware, health probes and
// metrics. Post endpoints live in the post subpackage.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"postpulse/internal/usecase/query"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CircuitReporter is satisfied by *circuitbreaker.CircuitBreaker.
type CircuitReporter interface {
	Name() string
	IsOpen() bool
}

// HealthHandler reports the post cache and the source circuit breaker.
type HealthHandler struct {
	Cache   *query.Cache
	Circuit CircuitReporter
	Version string
}

// ServeHTTP returns 503 only when no collection has loaded and the last fetch
// failed. Stale data or an open circuit are reported as degraded.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	if h.Cache != nil {
		checks["posts_cache"] = h.checkCache()
	} else {
		checks["posts_cache"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
	}
	if h.Circuit != nil {
		checks["source_circuit"] = h.checkCircuit()
	}

	status := "healthy"
	for _, c := range checks {
		if c.Status == "unhealthy" {
			status = "unhealthy"
			break
		}
		if c.Status == "degraded" {
			status = "degraded"
		}
	}
	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Warn("health: failed to encode response", slog.Any("error", err))
	}
}

func (h *HealthHandler) checkCache() CheckStatus {
	snap := h.Cache.Snapshot()
	details := map[string]interface{}{
		"status":   string(snap.Status),
		"version":  snap.Version,
		"posts":    len(snap.Posts),
		"fetching": snap.Fetching,
		"stale":    h.Cache.IsStale(),
	}
	if !snap.FetchedAt.IsZero() {
		details["fetched_at"] = snap.FetchedAt.UTC().Format(time.RFC3339)
	}

	switch {
	case !snap.HasData() && snap.Status == query.StatusError:
		return CheckStatus{Status: "unhealthy", Message: "posts never loaded", Details: details}
	case !snap.HasData():
		return CheckStatus{Status: "degraded", Message: "posts loading", Details: details}
	case snap.Err != nil:
		return CheckStatus{Status: "degraded", Message: "last refresh failed", Details: details}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

func (h *HealthHandler) checkCircuit() CheckStatus {
	details := map[string]interface{}{"name": h.Circuit.Name()}
	if h.Circuit.IsOpen() {
		return CheckStatus{Status: "degraded", Message: "circuit open", Details: details}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// ReadyHandler reports ready once the post collection has loaded at least once.
type ReadyHandler struct {
	Cache *query.Cache
}

// ServeHTTP returns 200 "ready" or 503.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Cache == nil {
		http.Error(w, "posts cache not configured", http.StatusServiceUnavailable)
		return
	}
	if !h.Cache.Snapshot().HasData() {
		http.Error(w, "posts not loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler handles liveness probes. It always returns 200 while the
// process can serve requests.
type LiveHandler struct{}

// ServeHTTP writes "alive".
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
