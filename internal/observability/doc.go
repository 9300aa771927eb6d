// Package observability groups the service's structured logging, Prometheus
// metrics and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: slog construction and context propagation
//   - metrics: Prometheus registry and recorders for fetches, cache and views
//   - tracing: tracer access and HTTP middleware
package observability
