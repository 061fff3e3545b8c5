package tracing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Options controls tracing initialization
type Options struct {
	Enabled     bool
	Endpoint    string  // OTLP/HTTP collector endpoint (host:port or URL)
	SampleRatio float64 // 0.0 - 1.0
	ServiceName string
}

// Init configures the global tracer provider and propagators.
// The returned function flushes and stops the provider; it is never nil.
func Init(ctx context.Context, opt Options) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	if !opt.Enabled || strings.TrimSpace(opt.Endpoint) == "" {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	svc := strings.TrimSpace(opt.ServiceName)
	if svc == "" {
		svc = "s3-uploader"
	}
	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(attribute.String("service.name", svc)),
	)
	if err != nil {
		res = resource.Default()
	}

	httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(stripScheme(opt.Endpoint))}
	if strings.HasPrefix(opt.Endpoint, "http://") || !strings.Contains(opt.Endpoint, "://") {
		httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, httpOpts...)
	if err != nil {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, fmt.Errorf("otlp http exporter: %w", err)
	}

	ratio := opt.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func stripScheme(endpoint string) string {
	e := strings.TrimSpace(endpoint)
	e = strings.TrimPrefix(e, "http://")
	e = strings.TrimPrefix(e, "https://")
	return strings.TrimSuffix(e, "/")
}
