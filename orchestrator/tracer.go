package orchestrator

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// NewTracerProvider creates a TracerProvider that exports planner spans
// through the given exporter.
//
// The provider uses a SimpleSpanProcessor for immediate export without
// batching, so spans from short-lived planning runs are visible as soon as
// they complete.
func NewTracerProvider(exporter sdktrace.SpanExporter, logger *slog.Logger) *sdktrace.TracerProvider {
	processor := sdktrace.NewSimpleSpanProcessor(exporter)

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String("globepilot-planner"),
		),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		res = resource.Default()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(res),
	)
}
