// Package traces sets up OpenTelemetry tracing. When no OTLP endpoint is
// configured the tracer provider is a no-op and spans cost nothing.
package traces

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/denarius-labs/riskd/internal/config"
)

const tracerName = "github.com/denarius-labs/riskd"

// Init configures the global tracer provider. Returns a shutdown function
// to flush spans on exit.
func Init(ctx context.Context, otlpEndpoint string, logger *slog.Logger) (func(context.Context) error, error) {
	if otlpEndpoint == "" {
		logger.Info("tracing disabled, no OTLP endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(otlpEndpoint),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("riskd"),
		semconv.ServiceVersion(config.Version),
	))
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing enabled", "endpoint", otlpEndpoint)
	return tp.Shutdown, nil
}

// StartSpan starts a span on the global tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

// AccountNumber tags a span with the account under evaluation.
func AccountNumber(n string) attribute.KeyValue {
	return attribute.String("riskd.account_number", n)
}

// TenantID tags a span with the requesting tenant.
func TenantID(id string) attribute.KeyValue {
	return attribute.String("riskd.tenant_id", id)
}

// RiskLevel tags a span with the scored risk level.
func RiskLevel(level string) attribute.KeyValue {
	return attribute.String("riskd.risk_level", level)
}

// RiskScore tags a span with the scored value.
func RiskScore(score float64) attribute.KeyValue {
	return attribute.Float64("riskd.risk_score", score)
}
