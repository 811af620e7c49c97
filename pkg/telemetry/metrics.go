package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome classifies one resolution for metrics.
type Outcome string

const (
	// OutcomeHit means the cached set was returned without loading.
	OutcomeHit Outcome = "hit"

	// OutcomeLoad means the caller led a manifest load.
	OutcomeLoad Outcome = "load"

	// OutcomeCoalesced means the caller shared another caller's load.
	OutcomeCoalesced Outcome = "coalesced"

	// OutcomeError means resolution failed.
	OutcomeError Outcome = "error"

	// OutcomeCancelled means the caller stopped waiting.
	OutcomeCancelled Outcome = "cancelled"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routedefs").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolve and load durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routedefs",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the resolver's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	resolvesTotal   *prometheus.CounterVec
	resolveDuration *prometheus.HistogramVec
	loadsTotal      *prometheus.CounterVec
	loadDuration    *prometheus.HistogramVec
	definitions     *prometheus.GaugeVec
	invalidations   *prometheus.CounterVec
}

// NewMetrics registers the collectors:
//   - routedefs_resolves_total{kind,outcome}
//   - routedefs_resolve_duration_seconds{kind}
//   - routedefs_manifest_loads_total{kind,status}
//   - routedefs_manifest_load_duration_seconds{kind}
//   - routedefs_definitions{kind}
//   - routedefs_invalidations_total{kind,reason}
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		resolvesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolves_total",
			Help:        "Total number of route definition resolutions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "outcome"}),

		resolveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolve_duration_seconds",
			Help:        "Route definition resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		loadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "manifest_loads_total",
			Help:        "Total number of manifest loads performed for a route kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "status"}),

		loadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "manifest_load_duration_seconds",
			Help:        "Manifest load and transform duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		definitions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "definitions",
			Help:        "Number of route definitions in the current set",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "invalidations_total",
			Help:        "Total number of cached route sets discarded",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "reason"}),
	}
}

// ObserveResolve records one Resolve call.
func (m *Metrics) ObserveResolve(kind string, outcome Outcome, d time.Duration) {
	if m == nil {
		return
	}
	m.resolvesTotal.WithLabelValues(kind, string(outcome)).Inc()
	m.resolveDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveLoad records one manifest load and transform.
func (m *Metrics) ObserveLoad(kind string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.loadsTotal.WithLabelValues(kind, status).Inc()
	m.loadDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// SetDefinitions records the size of the current set.
func (m *Metrics) SetDefinitions(kind string, n int) {
	if m == nil {
		return
	}
	m.definitions.WithLabelValues(kind).Set(float64(n))
}

// ObserveInvalidation records a discarded cache ("version", "event" or "error").
func (m *Metrics) ObserveInvalidation(kind, reason string) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(kind, reason).Inc()
}
