package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of pricing instruments
const MeterName = "pricing"

// Attribute keys shared by pricing instruments
var (
	AttrOutcome  = attribute.Key("outcome")
	AttrListKind = attribute.Key("list_kind")
)

// PricingMetrics records quote counts and latency.
type PricingMetrics struct {
	quotes   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewPricingMetrics creates the pricing instruments on meter.
func NewPricingMetrics(meter metric.Meter) (*PricingMetrics, error) {
	quotes, err := meter.Int64Counter(
		"pricing.quotes",
		metric.WithDescription("Number of quote requests by outcome"),
		metric.WithUnit("{quote}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter pricing.quotes: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"pricing.quote.duration",
		metric.WithDescription("Time spent resolving a quote"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(QuoteDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram pricing.quote.duration: %w", err)
	}

	return &PricingMetrics{quotes: quotes, duration: duration}, nil
}

// RecordQuote counts one quote and records its latency. listKind is empty
// when no list was selected.
func (m *PricingMetrics) RecordQuote(ctx context.Context, outcome, listKind string, elapsed time.Duration) {
	if listKind == "" {
		listKind = "none"
	}
	attrs := metric.WithAttributes(AttrOutcome.String(outcome), AttrListKind.String(listKind))
	m.quotes.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
