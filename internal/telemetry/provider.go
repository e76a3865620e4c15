// Package telemetry wires the storefront's traces and metrics: OTLP trace
// export, a Prometheus scrape endpoint, and instrumented database handles.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Providers bundles everything main needs from the telemetry setup: the
// handler to mount at /metrics and a single shutdown covering both the
// tracer and meter providers.
type Providers struct {
	Metrics http.Handler

	shutdowns []func(context.Context) error
}

func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdowns {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

// Init installs the global tracer and meter providers and starts Go
// runtime instrumentation. The OTLP endpoint comes from
// OTEL_EXPORTER_OTLP_ENDPOINT, defaulting to a local collector.
func Init(ctx context.Context, serviceName, serviceVersion string) (*Providers, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4317"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricsHandler, shutdownMeter, err := newMeterProvider(res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	if err := runtime.Start(); err != nil {
		_ = tp.Shutdown(ctx)
		_ = shutdownMeter(ctx)
		return nil, err
	}

	return &Providers{
		Metrics:   metricsHandler,
		shutdowns: []func(context.Context) error{tp.Shutdown, shutdownMeter},
	}, nil
}

// WithHTTPRoute adds the http.route attribute to the current span from the
// request's matched Pattern. otelhttp wraps the whole mux and never sees
// the route, so the handler has to attach it itself.
func WithHTTPRoute(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Pattern != "" {
			span := oteltrace.SpanFromContext(r.Context())
			span.SetAttributes(semconv.HTTPRoute(r.Pattern))
		}
		h(w, r)
	}
}
