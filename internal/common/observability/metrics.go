package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability owns the OpenTelemetry meter and tracer providers for the form.
// A zero value is usable and records nothing.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	stageCounter   otelmetric.Int64Counter
	stageDuration  otelmetric.Float64Histogram
}

// New wires an OpenTelemetry meter provider exporting through the given
// prometheus registerer (nil means the default registerer) and installs a
// tracer provider for stage spans.
func New(serviceName string, registerer promclient.Registerer) (*Observability, error) {
	opts := []prometheus.Option{}
	if registerer != nil {
		opts = append(opts, prometheus.WithRegisterer(registerer))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return &Observability{}, err
	}

	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	meter := mp.Meter(serviceName)

	stageCounter, _ := meter.Int64Counter(
		"form.stage.runs",
		otelmetric.WithDescription("Number of submission stage runs"),
	)

	stageDuration, _ := meter.Float64Histogram(
		"form.stage.duration",
		otelmetric.WithDescription("Submission stage duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  mp,
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
		stageCounter:   stageCounter,
		stageDuration:  stageDuration,
	}, nil
}

// StartStage opens a span for one submission stage. The returned func ends
// the span and records its outcome; pass the stage's error, if any.
func (o *Observability) StartStage(ctx context.Context, stage string) (context.Context, func(err error)) {
	if o == nil || o.tracer == nil {
		return ctx, func(error) {}
	}

	start := time.Now()
	ctx, span := o.tracer.Start(ctx, stage)

	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		attrs := otelmetric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("status", status),
		)
		if o.stageCounter != nil {
			o.stageCounter.Add(ctx, 1, attrs)
		}
		if o.stageDuration != nil {
			o.stageDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
		}
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
