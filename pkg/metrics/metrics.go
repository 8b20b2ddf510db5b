// Package metrics defines the OpenTelemetry instruments of the monitor and
// the Prometheus-backed meter provider that exposes them.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"mediatrace/pkg/domain"
)

const meterName = "mediatrace"

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Metrics groups the instruments recorded by the monitor.
type Metrics struct {
	decisions     metric.Int64Counter
	verdicts      metric.Int64Counter
	candidates    metric.Int64UpDownCounter
	evictions     metric.Int64Counter
	writes        metric.Int64Counter
	writeDuration metric.Float64Histogram
}

// NewProvider creates a meter provider exporting to the given Prometheus registerer.
func NewProvider(registerer prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}

// New creates the instruments on the given provider.
func New(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)

	var (
		m   Metrics
		err error
	)
	if m.decisions, err = meter.Int64Counter("mediatrace.requests",
		metric.WithDescription("Intercepted requests by filter decision.")); err != nil {
		return nil, fmt.Errorf("could not create requests counter: %w", err)
	}
	if m.verdicts, err = meter.Int64Counter("mediatrace.responses",
		metric.WithDescription("Classified candidate responses by verdict.")); err != nil {
		return nil, fmt.Errorf("could not create responses counter: %w", err)
	}
	if m.candidates, err = meter.Int64UpDownCounter("mediatrace.candidates",
		metric.WithDescription("Candidate requests awaiting a response.")); err != nil {
		return nil, fmt.Errorf("could not create candidates gauge: %w", err)
	}
	if m.evictions, err = meter.Int64Counter("mediatrace.candidate.evictions",
		metric.WithDescription("Candidates removed without a classified response, by reason.")); err != nil {
		return nil, fmt.Errorf("could not create evictions counter: %w", err)
	}
	if m.writes, err = meter.Int64Counter("mediatrace.storage.writes",
		metric.WithDescription("Domain list writes by kind and result.")); err != nil {
		return nil, fmt.Errorf("could not create writes counter: %w", err)
	}
	if m.writeDuration, err = meter.Float64Histogram("mediatrace.storage.write.duration",
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create write duration histogram: %w", err)
	}

	return &m, nil
}

// Noop returns instruments that record nothing.
func Noop() *Metrics {
	m, _ := New(noop.NewMeterProvider())

	return m
}

// Decision counts one filter decision.
func (m *Metrics) Decision(ctx context.Context, d domain.Decision) {
	m.decisions.Add(ctx, 1, metric.WithAttributes(attribute.String("decision", string(d))))
}

// Verdict counts one classifier verdict.
func (m *Metrics) Verdict(ctx context.Context, v domain.Verdict) {
	m.verdicts.Add(ctx, 1, metric.WithAttributes(attribute.String("verdict", string(v))))
}

// Candidates adjusts the number of in-flight candidates by delta.
func (m *Metrics) Candidates(ctx context.Context, delta int) {
	if delta == 0 {
		return
	}
	m.candidates.Add(ctx, int64(delta))
}

// Evicted counts candidates removed for reason ("failed", "expired", "navigated", "full").
func (m *Metrics) Evicted(ctx context.Context, reason string, n int) {
	if n <= 0 {
		return
	}
	m.evictions.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

// Write records one domain list write.
func (m *Metrics) Write(ctx context.Context, kind domain.Kind, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.writes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("result", result)))
	m.writeDuration.Record(ctx, took.Seconds(), metric.WithAttributes(attribute.String("kind", string(kind))))
}
