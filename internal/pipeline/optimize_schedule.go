package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/providers/calendar"
	"agentcal/internal/providers/task"
)

const maxSuggestions = 5

// OptimizeSchedule implements the optimize_schedule capability: gather
// current load, ask the optimization interpreter for concrete suggestions,
// gate on affects_others, apply on approval.
func (d *Dispatcher) OptimizeSchedule(ctx context.Context, call *Call) (*domain.Response, error) {
	if call.Approved && call.ActionData != nil {
		return d.applyOptimizationSuggestions(ctx, call)
	}
	if !call.Context.HasTaskCredentials() && !call.Context.HasCalendarCredentials() {
		return domain.NeedsSetupResponse("neither provider is configured"), nil
	}

	intent, err := d.Interp.ParseOptimizationIntent(ctx, call.Query, call.now())
	if err != nil {
		return nil, err
	}

	var tasks []task.Task
	var events []calendar.Event
	if call.Context.HasTaskCredentials() {
		tasks, err = d.taskAdapter(call.Context).List(ctx)
		if err != nil {
			return nil, Wrap(ErrorKindProviderError, "listing tasks", err)
		}
	}
	if call.Context.HasCalendarCredentials() {
		events, err = d.calendarAdapter(call.Context).List(ctx, primaryCalendarID, intent.TimeRange.Start, intent.TimeRange.End)
		if err != nil {
			return nil, Wrap(ErrorKindProviderError, "listing events", err)
		}
	}

	summary := scheduleSummary(tasks, events, intent.TimeRange)
	suggestions, err := d.Interp.GenerateSuggestions(ctx, intent.Goals, summary, maxSuggestions)
	if err != nil {
		return nil, err
	}

	affectsOthers := false
	for _, s := range suggestions {
		if s.AffectsOthers {
			affectsOthers = true
			break
		}
	}
	if affectsOthers {
		record := &domain.ActionRecord{
			Kind: domain.ActionEventUpdateWithParticipants,
			Params: mustJSON(map[string]any{"suggestions": suggestions}),
			Preview: domain.Preview{
				Summary: "Some suggestions affect events with other participants",
				Details: map[string]any{"suggestions": suggestions},
			},
		}
		return domain.NeedsApprovalResponse(record), nil
	}

	return d.applySuggestions(ctx, call, suggestions), nil
}

func scheduleSummary(tasks []task.Task, events []calendar.Event, rng domain.TimeRange) string {
	var committedHours, meetingHours, soloWorkHours float64
	meetingCount := 0
	for _, e := range events {
		dur := e.End.Sub(e.Start).Hours()
		committedHours += dur
		if len(e.Participants) > 0 {
			meetingHours += dur
			meetingCount++
		} else {
			soloWorkHours += dur
		}
	}
	for _, t := range tasks {
		committedHours += t.DurationHours
	}
	focusHoursAvailable := rng.End.Sub(rng.Start).Hours() - committedHours
	if focusHoursAvailable < 0 {
		focusHoursAvailable = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Time range: %s to %s\n", rng.Start.Format(time.RFC3339), rng.End.Format(time.RFC3339))
	fmt.Fprintf(&b, "Committed hours: %.1f, focus hours available: %.1f\n", committedHours, focusHoursAvailable)
	fmt.Fprintf(&b, "Meetings: %d (%.1fh), solo work: %.1fh\n", meetingCount, meetingHours, soloWorkHours)
	b.WriteString("Tasks:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s (priority %s, %.1fh)\n", t.Title, t.Priority, t.DurationHours)
	}
	b.WriteString("Events:\n")
	for _, e := range events {
		fmt.Fprintf(&b, "- %s (%s, %d participant(s))\n", e.Title, e.Start.Format(time.RFC3339), len(e.Participants))
	}
	return b.String()
}

func (d *Dispatcher) applyOptimizationSuggestions(ctx context.Context, call *Call) (*domain.Response, error) {
	var params struct {
		Suggestions []domain.OptimizationSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(call.ActionData.Params, &params); err != nil {
		return nil, Wrap(ErrorKindValidation, "decoding action_data params", err)
	}
	return d.applySuggestions(ctx, call, params.Suggestions), nil
}

// applySuggestions dispatches each suggestion by type: task date updates via
// task-update, event moves via event-update, focus-time blocks via
// event-create with busy=true.
func (d *Dispatcher) applySuggestions(ctx context.Context, call *Call, suggestions []domain.OptimizationSuggestion) *domain.Response {
	var applied, failed []map[string]any
	for _, s := range suggestions {
		if err := d.applyOneSuggestion(ctx, call, s); err != nil {
			failed = append(failed, map[string]any{"action": s.Action, "error": err.Error()})
			continue
		}
		applied = append(applied, map[string]any{"action": s.Action, "impact": s.Impact})
	}
	return domain.SuccessResponse("", "optimized",
		map[string]any{"applied": applied, "failed": failed},
		fmt.Sprintf("Applied %d of %d suggestions", len(applied), len(suggestions)))
}

func (d *Dispatcher) applyOneSuggestion(ctx context.Context, call *Call, s domain.OptimizationSuggestion) error {
	switch s.Type {
	case domain.OptimizeFocusTime:
		start, _ := s.Command["start"].(string)
		startTime, err := time.ParseInLocation(time.RFC3339, start, call.Context.Location())
		if err != nil {
			return fmt.Errorf("optimize_schedule: missing/invalid focus block start: %w", err)
		}
		durationHours, _ := s.Command["duration_hours"].(float64)
		if durationHours <= 0 {
			durationHours = 1
		}
		draft := &domain.EventDraft{
			Title: s.Action,
			Start: startTime,
			End: startTime.Add(time.Duration(durationHours * float64(time.Hour))),
			Busy: true,
		}
		_, err = d.calendarAdapter(call.Context).Create(ctx, primaryCalendarID, call.Context.Timezone, draft)
		return err
	case domain.OptimizePriorityBased, domain.OptimizeWorkloadBalance:
		taskID, _ := s.Command["task_id"].(string)
		if taskID == "" {
			return nil
		}
		patch := map[string]any{}
		if due, ok := s.Command["due"].(string); ok {
			patch["due"] = due
		}
		if len(patch) == 0 {
			return nil
		}
		_, err := d.taskAdapter(call.Context).Update(ctx, taskID, patch)
		return err
	case domain.OptimizeMeetingReduce, domain.OptimizeEnergyAlignment:
		eventID, _ := s.Command["event_id"].(string)
		if eventID == "" {
			return nil
		}
		patch := map[string]any{}
		if start, ok := s.Command["start"].(string); ok {
			if t, err := time.ParseInLocation(time.RFC3339, start, call.Context.Location()); err == nil {
				patch["when"] = map[string]any{"start_time": t.Unix()}
			}
		}
		if len(patch) == 0 {
			return nil
		}
		_, err := d.calendarAdapter(call.Context).Update(ctx, primaryCalendarID, eventID, patch)
		return err
	default:
		return nil
	}
}
