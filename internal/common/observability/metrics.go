package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability wraps the OpenTelemetry meter provider backed by the
// Prometheus exporter. Counters here complement the promauto metrics in
// internal/common/metrics with request-scoped instruments.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	reminderCounter otelmetric.Int64Counter
	tickDuration    otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	reminderCounter, _ := meter.Int64Counter(
		"reminders.processed",
		otelmetric.WithDescription("Number of scheduled reminders processed"),
	)

	tickDuration, _ := meter.Float64Histogram(
		"dispatcher.tick.duration",
		otelmetric.WithDescription("Dispatcher poll cycle duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		reminderCounter: reminderCounter,
		tickDuration:    tickDuration,
	}
}

func (o *Observability) RecordReminderProcessed(ctx context.Context, status string) {
	if o.reminderCounter != nil {
		o.reminderCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordTickDuration(ctx context.Context, duration time.Duration, status string) {
	if o.tickDuration != nil {
		o.tickDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
