// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created through the global tracer provider. The HTTP middleware
// starts a server span per request and propagates W3C trace context; the
// content source client and fetch service add child spans for each fetch.
//
// Example usage:
//
//	import "postpulse/internal/observability/tracing"
//
//	handler := tracing.Middleware(mux)
//
//	func fetch(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "fetch")
//	    defer span.End()
//	}
package tracing
