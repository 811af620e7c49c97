// Package telemetry provides the Prometheus collectors and OpenTelemetry
// spans recorded while resolving route definitions.
//
// Metrics are opt-in: create them once per process and hand them to the
// providers.
//
//	metrics := telemetry.NewMetrics(telemetry.WithNamespace("myapp"))
//	p := routedef.NewPagesAPIProvider(dist, nil, loader, routedef.WithMetrics(metrics))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//
// Spans use the global tracer provider (see otel.SetTracerProvider).
package telemetry
