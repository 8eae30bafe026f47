package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type (
	// NoopLogger discards all log messages; used in tests.
	NoopLogger struct{}
	// NoopMetrics discards all metrics; used in tests.
	NoopMetrics struct{}
	// NoopTracer creates no-op spans; used in tests.
	NoopTracer struct{}

	noopSpan struct{}
)

func NewNoopLogger() Logger { return NoopLogger{} }
func NewNoopMetrics() Metrics { return NoopMetrics{} }
func NewNoopTracer() Tracer { return NoopTracer{} }

func (NoopLogger) Debug(context.Context, string,...any) {}
func (NoopLogger) Info(context.Context, string,...any) {}
func (NoopLogger) Warn(context.Context, string,...any) {}
func (NoopLogger) Error(context.Context, string,...any) {}

func (NoopMetrics) IncCounter(string, float64,...string) {}
func (NoopMetrics) RecordTimer(string, time.Duration,...string) {}

func (NoopTracer) Start(ctx context.Context, name string, opts...trace.SpanStartOption) (context.Context, Span) {
	return ctx, noopSpan{}
}

func (noopSpan) End(...trace.SpanEndOption) {}
func (noopSpan) AddEvent(string,...any) {}
func (noopSpan) SetStatus(codes.Code, string) {}
func (noopSpan) RecordError(error,...trace.EventOption) {}
