package observability

import (
	"context"
	"time"

	"vendor-matching-workers/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records per-job OpenTelemetry metrics. By default they are
// exported through the prometheus registry next to the promauto collectors.
type Observability struct {
	meterProvider *metric.MeterProvider
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
	log           logger.Logger
}

// JobOutcome describes one finished job.
type JobOutcome struct {
	TaskType  string
	Status    string // completed or failed
	ErrorCode string // set when Status is failed
	Duration  time.Duration
}

// New builds the meter provider. Passing readers replaces the prometheus
// exporter, which tests use to collect metrics in memory.
func New(serviceName string, log logger.Logger, readers ...metric.Reader) *Observability {
	if len(readers) == 0 {
		exporter, err := prometheus.New()
		if err != nil {
			log.Warn("failed to create prometheus exporter, job metrics disabled", map[string]interface{}{
				"error": err.Error(),
			})
			return &Observability{log: log}
		}
		readers = []metric.Reader{exporter}
	}

	opts := make([]metric.Option, 0, len(readers))
	for _, r := range readers {
		opts = append(opts, metric.WithReader(r))
	}
	provider := metric.NewMeterProvider(opts...)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	if err != nil {
		log.Warn("jobs.processed counter unavailable", map[string]interface{}{"error": err.Error()})
	}

	jobDuration, err := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		log.Warn("jobs.duration histogram unavailable", map[string]interface{}{"error": err.Error()})
	}

	return &Observability{
		meterProvider: provider,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
		log:           log,
	}
}

// RecordJob counts the job and records its duration.
func (o *Observability) RecordJob(ctx context.Context, outcome JobOutcome) {
	attrs := []attribute.KeyValue{
		attribute.String("task_type", outcome.TaskType),
		attribute.String("status", outcome.Status),
	}
	if outcome.ErrorCode != "" {
		attrs = append(attrs, attribute.String("error_code", outcome.ErrorCode))
	}
	set := otelmetric.WithAttributes(attrs...)

	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, set)
	}
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(outcome.Duration.Milliseconds()), set)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.meterProvider.Shutdown(ctx); err != nil {
		o.log.Warn("meter provider shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
