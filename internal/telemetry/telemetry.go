// Package telemetry 构建出站请求使用的 OpenTelemetry TracerProvider。
package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ShutdownFunc flushes and stops a provider returned by NewTracerProvider.
type ShutdownFunc func(ctx context.Context) error

// NewTracerProvider returns a provider exporting spans as JSON lines to w.
// When disabled it returns a no-op provider and a no-op shutdown.
func NewTracerProvider(enabled bool, w io.Writer) (trace.TracerProvider, ShutdownFunc, error) {
	if !enabled {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}
	if w == nil {
		w = io.Discard
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return tp, tp.Shutdown, nil
}
