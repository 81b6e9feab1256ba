package core

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceName = "emodi"

type Tracing struct {
	// Exporter is one of none, stdout or otlp.
	Exporter     string `yaml:"exporter"`
	OTLPEndpoint string `yaml:"otlpEndpoint"`
	OTLPInsecure bool   `yaml:"otlpInsecure"`
	// SampleRatio is the share of new traces that are recorded; 0 records all.
	SampleRatio float64 `yaml:"sampleRatio"`
	Environment string  `yaml:"environment"`
}

func (t Tracing) exporterName() string {
	name := strings.ToLower(strings.TrimSpace(t.Exporter))
	if name == "" {
		return "none"
	}
	return name
}

// SetupTracing installs the global tracer provider for the service described
// by config and returns its shutdown function. With tracing disabled only the
// propagator is installed.
func SetupTracing(ctx context.Context, config *ServiceConfig) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	cfg := config.Tracing
	exporter, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		slog.Debug("tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	res, err := newTraceResource(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	slog.Info("tracing enabled",
		"exporter", cfg.exporterName(),
		"sample_ratio", cfg.SampleRatio,
		"environment", cfg.Environment)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to flush spans: %w", err)
		}
		return nil
	}, nil
}

// newSpanExporter returns nil when tracing is disabled.
func newSpanExporter(ctx context.Context, cfg Tracing) (sdktrace.SpanExporter, error) {
	switch cfg.exporterName() {
	case "none":
		return nil, nil
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		return exporter, nil
	case "otlp":
		if strings.TrimSpace(cfg.OTLPEndpoint) == "" {
			return nil, fmt.Errorf("otlp trace exporter requires endpoint")
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp trace exporter for %s: %w", cfg.OTLPEndpoint, err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}
}

// newTraceResource describes this deployment: its version, environment and
// which backends answer lookups and publications.
func newTraceResource(ctx context.Context, config *ServiceConfig) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion()),
		attribute.String("emodi.publisher", config.Publisher.Type),
		attribute.String("emodi.database", config.Database.Type),
		attribute.Bool("emodi.redis", config.Cache.RedisAddr != ""),
		attribute.String("emodi.trigger", config.Trigger),
	}
	if config.Tracing.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(config.Tracing.Environment))
	}
	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attrs...),
	)
}

// newSampler keeps the caller's sampling decision and samples new traces by ratio.
func newSampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

func serviceVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
