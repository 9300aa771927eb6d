package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name for every span this service creates.
const TracerName = "postpulse"

// GetTracer returns the tracer for creating spans.
// It resolves through the global provider on each call so tests and main can
// install a provider after package initialization.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// InitProvider installs an SDK tracer provider and the W3C trace-context
// propagator as globals. Spans are sampled when the parent is, or always at
// the root; no exporter is attached, so they feed trace IDs and any span
// processor added with opts. The returned func flushes and shuts it down.
func InitProvider(serviceName, version string, opts ...sdktrace.TracerProviderOption) func(context.Context) error {
	base := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		)),
	}
	tp := sdktrace.NewTracerProvider(append(base, opts...)...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}
