// Package observe provides application-wide observability primitives for
// pantryvox: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all pantryvox metrics.
const meterName = "github.com/pantryvox/pantryvox"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// ParseDuration tracks full utterance-to-items parse latency. Use with
	// attribute: attribute.String("locale", ...)
	ParseDuration metric.Float64Histogram

	// EnrichDuration tracks collaborator enrichment latency for one utterance.
	EnrichDuration metric.Float64Histogram

	// --- Counters ---

	// ItemsParsed counts items that made it through the full pipeline. Use
	// with attributes:
	//   attribute.String("locale", ...), attribute.String("unit", ...)
	ItemsParsed metric.Int64Counter

	// ComponentsRejected counts raw components dropped by the name validator.
	// Use with attributes:
	//   attribute.String("locale", ...), attribute.String("reason", ...)
	ComponentsRejected metric.Int64Counter

	// VolumePrompts counts items flagged as needing explicit volume input
	// (container unit over a liquid name).
	VolumePrompts metric.Int64Counter

	// CollaboratorRequests counts enrichment collaborator calls. Use with
	// attributes:
	//   attribute.String("collaborator", ...), attribute.String("status", ...)
	CollaboratorRequests metric.Int64Counter

	// --- Error counters ---

	// CollaboratorErrors counts collaborator failures. Use with attribute:
	//   attribute.String("collaborator", ...)
	CollaboratorErrors metric.Int64Counter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Lexical
// parsing is sub-millisecond; the upper buckets cover LLM-backed enrichment.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.ParseDuration, err = m.Float64Histogram("pantryvox.parse.duration",
		metric.WithDescription("Latency of a full utterance parse."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.EnrichDuration, err = m.Float64Histogram("pantryvox.enrich.duration",
		metric.WithDescription("Latency of collaborator enrichment per utterance."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.ItemsParsed, err = m.Int64Counter("pantryvox.items.parsed",
		metric.WithDescription("Total parsed food items by locale and canonical unit."),
	); err != nil {
		return nil, err
	}
	if met.ComponentsRejected, err = m.Int64Counter("pantryvox.components.rejected",
		metric.WithDescription("Total raw components rejected by the name validator."),
	); err != nil {
		return nil, err
	}
	if met.VolumePrompts, err = m.Int64Counter("pantryvox.volume.prompts",
		metric.WithDescription("Total items flagged as needing explicit volume input."),
	); err != nil {
		return nil, err
	}
	if met.CollaboratorRequests, err = m.Int64Counter("pantryvox.collaborator.requests",
		metric.WithDescription("Total enrichment collaborator requests by collaborator and status."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.CollaboratorErrors, err = m.Int64Counter("pantryvox.collaborator.errors",
		metric.WithDescription("Total collaborator failures by collaborator."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("pantryvox.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordItemParsed records one parsed item with its locale and canonical unit.
func (m *Metrics) RecordItemParsed(ctx context.Context, locale, unit string) {
	m.ItemsParsed.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("locale", locale),
			attribute.String("unit", unit),
		),
	)
}

// RecordComponentRejected records one validator rejection with its reason.
func (m *Metrics) RecordComponentRejected(ctx context.Context, locale, reason string) {
	m.ComponentsRejected.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("locale", locale),
			attribute.String("reason", reason),
		),
	)
}

// RecordCollaboratorRequest records a collaborator request counter increment
// with the standard attribute set.
func (m *Metrics) RecordCollaboratorRequest(ctx context.Context, collaborator, status string) {
	m.CollaboratorRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("collaborator", collaborator),
			attribute.String("status", status),
		),
	)
}

// RecordCollaboratorError records a collaborator error counter increment.
func (m *Metrics) RecordCollaboratorError(ctx context.Context, collaborator string) {
	m.CollaboratorErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("collaborator", collaborator)),
	)
}
