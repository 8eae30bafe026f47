// Package telemetry wraps goa.design/clue/log and OpenTelemetry for the
// pipeline's structured logging, tracing, and metrics.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Logger captures the structured logging used across the pipeline.
// Implementations typically delegate to Clue; the interface stays small so
// tests can supply lightweight stubs.
type Logger interface {
	Debug(ctx context.Context, msg string, keyvals...any)
	Info(ctx context.Context, msg string, keyvals...any)
	Warn(ctx context.Context, msg string, keyvals...any)
	Error(ctx context.Context, msg string, keyvals...any)
}

// Metrics exposes counter/histogram helpers for pipeline instrumentation.
type Metrics interface {
	IncCounter(name string, value float64, tags...string)
	RecordTimer(name string, duration time.Duration, tags...string)
}

// Tracer abstracts span creation so pipeline code stays agnostic of the
// underlying OTEL provider.
type Tracer interface {
	Start(ctx context.Context, name string, opts...trace.SpanStartOption) (context.Context, Span)
}

// Span represents an in-flight tracing span.
type Span interface {
	End(opts...trace.SpanEndOption)
	AddEvent(name string, attrs...any)
	SetStatus(code codes.Code, description string)
	RecordError(err error, opts...trace.EventOption)
}

// StageNames name the four pipeline stages: interpret, safety-check,
// approval-gate, execute. Dispatcher.Dispatch opens its span with
// StageExecute; no caller opens a span for the other three.
const (
	StageInterpret = "interpret"
	StageSafetyCheck = "safety_check"
	StageApprovalGate = "approval_gate"
	StageExecute = "execute"
)

// StartStage starts a span and emits an info log line for one pipeline
// stage, tagging it with request_id/capability/action_kind. Credentials are
// never passed in keyvals.
func StartStage(ctx context.Context, tracer Tracer, logger Logger, stage, requestID, capability, actionKind string) (context.Context, Span) {
	ctx, span := tracer.Start(ctx, stage)
	logger.Info(ctx, "pipeline stage",
		"stage", stage, "request_id", requestID, "capability", capability, "action_kind", actionKind)
	return ctx, span
}
