package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for resolver spans.
const TracerName = "github.com/vango-dev/routedefs"

// Tracer returns the resolver tracer from the global provider. Configure the
// provider with otel.SetTracerProvider before resolving; the default is a
// no-op.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Attribute keys recorded on resolver spans.
const (
	KeyKind        = attribute.Key("routedefs.kind")
	KeyManifest    = attribute.Key("routedefs.manifest")
	KeyVersion     = attribute.Key("routedefs.version")
	KeyDefinitions = attribute.Key("routedefs.definitions")
	KeyOutcome     = attribute.Key("routedefs.outcome")
)

// StartSpan starts a span named name carrying attrs.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, sets its status and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
