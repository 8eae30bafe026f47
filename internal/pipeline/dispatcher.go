package pipeline

import (
	"context"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/interpret"
	"agentcal/internal/providers/calendar"
	"agentcal/internal/providers/task"
	"agentcal/internal/telemetry"
	"agentcal/internal/usercontext"
)

// Dispatcher owns the one model.Client-backed Interpreter shared across
// requests and the provider base URLs; it constructs a fresh TaskAdapter /
// CalendarAdapter per call from the request's own credentials — no
// process-wide authenticated handle is ever held here.
type Dispatcher struct {
	Interp *interpret.Interpreter
	TaskBaseURL string
	CalendarBaseURL string
	Tracer telemetry.Tracer
	Logger telemetry.Logger
	Metrics telemetry.Metrics
}

// New builds a Dispatcher with no-op telemetry; callers wire real
// implementations via the Tracer/Logger/Metrics fields (see cmd/agentd).
func New(interp *interpret.Interpreter, taskBaseURL, calendarBaseURL string) *Dispatcher {
	return &Dispatcher{
		Interp: interp,
		TaskBaseURL: taskBaseURL,
		CalendarBaseURL: calendarBaseURL,
		Tracer: telemetry.NewNoopTracer(),
		Logger: telemetry.NewNoopLogger(),
		Metrics: telemetry.NewNoopMetrics(),
	}
}

func (d *Dispatcher) taskAdapter(uc *usercontext.Context) *task.Adapter {
	return task.New(uc.Credentials["RECLAIM_API_KEY"], d.TaskBaseURL)
}

func (d *Dispatcher) calendarAdapter(uc *usercontext.Context) *calendar.Adapter {
	return calendar.New(uc.Credentials["NYLAS_API_KEY"], uc.Credentials["NYLAS_GRANT_ID"], d.CalendarBaseURL)
}

// primaryCalendarID is a placeholder for multi-calendar selection; the
// system operates against the grant's primary calendar and does not model
// calendar selection beyond calendar_id passthrough.
const primaryCalendarID = "primary"

// Capability names accepted by tool.execute/tool.approve.
const (
	CapabilityManageProductivity = "manage_productivity"
	CapabilityFindAndAnalyze = "find_and_analyze"
	CapabilityCheckAvailability = "check_availability"
	CapabilityOptimizeSchedule = "optimize_schedule"
)

// Dispatch routes a tool.execute/tool.approve call to its capability
// handler, wrapping the call in a request-level span/log pair.
func (d *Dispatcher) Dispatch(ctx context.Context, capability string, call *Call) (*domain.Response, error) {
	actionKind := ""
	if call.ActionData != nil {
		actionKind = string(call.ActionData.Kind)
	}
	ctx, span := telemetry.StartStage(ctx, d.Tracer, d.Logger, telemetry.StageExecute, call.RequestID, capability, actionKind)
	defer span.End()

	start := time.Now()
	resp, err := d.dispatch(ctx, capability, call)
	d.Metrics.RecordTimer("pipeline.dispatch.duration", time.Since(start), "capability", capability)
	if err != nil {
		span.RecordError(err)
		d.Metrics.IncCounter("pipeline.dispatch.errors", 1, "capability", capability)
		d.Logger.Error(ctx, "dispatch failed", "capability", capability, "request_id", call.RequestID, "error", err.Error())
	}
	return resp, err
}

func (d *Dispatcher) dispatch(ctx context.Context, capability string, call *Call) (*domain.Response, error) {
	switch capability {
	case CapabilityManageProductivity:
		return d.ManageProductivity(ctx, call)
	case CapabilityFindAndAnalyze:
		return d.FindAndAnalyze(ctx, call)
	case CapabilityCheckAvailability:
		return d.CheckAvailability(ctx, call)
	case CapabilityOptimizeSchedule:
		return d.OptimizeSchedule(ctx, call)
	default:
		return nil, New(ErrorKindValidation, "unknown capability: "+capability)
	}
}

// Call carries the uniform handler inputs.
type Call struct {
	Query string
	Context *usercontext.Context
	Approved bool
	ActionData *domain.ActionRecord
	RequestID string
}

// now returns the request's declared instant, defaulting timezone/date/time
// to the zero Context value having already been validated at construction
// (step 1 "set defaults for timezone/date/time" is enforced in
// usercontext.New; by the time a Call reaches here its Context is complete).
func (c *Call) now() time.Time { return c.Context.Now() }
