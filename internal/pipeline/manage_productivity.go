package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"agentcal/internal/approval"
	"agentcal/internal/calendarintel"
	"agentcal/internal/domain"
	"agentcal/internal/interpret"
	"agentcal/internal/providers/calendar"
	"agentcal/internal/providers/task"
)

// ManageProductivity implements the manage_productivity capability: route to
// task or event handling, run duplicate/conflict safety checks, gate on
// approval, execute.
func (d *Dispatcher) ManageProductivity(ctx context.Context, call *Call) (*domain.Response, error) {
	if call.Approved && call.ActionData != nil {
		return d.executeApprovedAction(ctx, call)
	}

	route, err := d.Interp.RouteQuery(ctx, call.Query)
	if err != nil {
		return nil, err
	}

	switch route.Provider {
	case domain.ProviderTask:
		if !call.Context.HasTaskCredentials() {
			return domain.NeedsSetupResponse("task provider credentials are not configured"), nil
		}
		return d.manageTask(ctx, call)
	case domain.ProviderCalendar:
		if !call.Context.HasCalendarCredentials() {
			return domain.NeedsSetupResponse("calendar provider credentials are not configured"), nil
		}
		return d.manageEvent(ctx, call)
	default:
		return nil, New(ErrorKindInternal, fmt.Sprintf("route interpreter returned unknown provider %q", route.Provider))
	}
}

var quotedTermRe = regexp.MustCompile(`'([^']+)'`)

func extractBulkSearchTerm(query string) string {
	if m := quotedTermRe.FindStringSubmatch(query); len(m) == 2 {
		return m[1]
	}
	if idx := strings.Index(strings.ToLower(query), " with "); idx >= 0 {
		return strings.TrimSpace(query[idx+len(" with "):])
	}
	return ""
}

// manageTask implements the task branch of manage_productivity specifics.
func (d *Dispatcher) manageTask(ctx context.Context, call *Call) (*domain.Response, error) {
	intent, err := d.Interp.ParseTaskIntent(ctx, call.Query, call.now())
	if err != nil {
		return nil, err
	}
	adapter := d.taskAdapter(call.Context)

	if approval.IsBulkQuery(call.Query) && intent.Operation == domain.TaskOpComplete {
		return d.bulkCompleteTasks(ctx, call, adapter)
	}

	switch intent.Operation {
	case domain.TaskOpCreate:
		return d.createTask(ctx, call, adapter, intent)
	case domain.TaskOpUpdate, domain.TaskOpComplete, domain.TaskOpDelete, domain.TaskOpAddTime:
		return d.mutateTask(ctx, call, adapter, intent)
	default:
		return nil, New(ErrorKindValidation, fmt.Sprintf("unsupported task operation %q", intent.Operation))
	}
}

func (d *Dispatcher) createTask(ctx context.Context, call *Call, adapter *task.Adapter, intent *domain.TaskIntent) (*domain.Response, error) {
	if intent.Task == nil {
		return nil, New(ErrorKindValidation, "task create requires a title")
	}
	if err := intent.Task.Validate(); err != nil {
		return nil, Wrap(ErrorKindValidation, "invalid task draft", err)
	}

	existing, err := adapter.List(ctx)
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "listing tasks for duplicate check", err)
	}
	for _, t := range existing {
		if !domain.ActiveTaskStatuses[t.Status] {
			continue
		}
		if calendarintel.TitlesAreSimilar(t.Title, intent.Task.Title) {
			record := &domain.ActionRecord{
				Kind: domain.ActionTaskCreateDuplicate,
				Draft: mustJSON(intent.Task),
				Preview: domain.Preview{
					Summary: fmt.Sprintf("A similar task %q already exists", t.Title),
					Details: map[string]any{"existing_task": map[string]any{"id": t.ID, "title": t.Title}},
				},
			}
			return domain.NeedsApprovalResponse(record), nil
		}
	}

	created, err := adapter.Create(ctx, intent.Task, "WORK")
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "creating task", err)
	}
	return domain.SuccessResponse(domain.ProviderTask, "created", created, fmt.Sprintf("Created task %q", created.Title)), nil
}

func (d *Dispatcher) mutateTask(ctx context.Context, call *Call, adapter *task.Adapter, intent *domain.TaskIntent) (*domain.Response, error) {
	id, err := d.resolveTaskReference(ctx, adapter, intent.TaskReference, string(intent.Operation))
	if err != nil {
		return nil, err
	}

	switch intent.Operation {
	case domain.TaskOpComplete:
		completed, err := adapter.MarkComplete(ctx, id)
		if err != nil {
			return nil, Wrap(ErrorKindProviderError, "marking task complete", err)
		}
		return domain.SuccessResponse(domain.ProviderTask, "completed", completed, fmt.Sprintf("Completed task %q", completed.Title)), nil
	case domain.TaskOpDelete:
		if err := adapter.Delete(ctx, id); err != nil {
			return nil, Wrap(ErrorKindProviderError, "deleting task", err)
		}
		return domain.SuccessResponse(domain.ProviderTask, "deleted", map[string]any{"id": id}, "Deleted task"), nil
	case domain.TaskOpAddTime:
		current, err := adapter.Get(ctx, id)
		if err != nil {
			return nil, Wrap(ErrorKindProviderError, "fetching task", err)
		}
		updated, err := adapter.Update(ctx, id, map[string]any{
			"timeChunksRequired": fmt.Sprintf("%.0f", (current.DurationHours+intent.TimeToAddHours)*4),
		})
		if err != nil {
			return nil, Wrap(ErrorKindProviderError, "updating task duration", err)
		}
		return domain.SuccessResponse(domain.ProviderTask, "updated", updated, fmt.Sprintf("Added %.1fh to task %q", intent.TimeToAddHours, updated.Title)), nil
	default: // TaskOpUpdate
		patch := map[string]any{}
		if intent.Task != nil {
			if intent.Task.Title != "" {
				patch["title"] = intent.Task.Title
			}
			if intent.Task.Notes != "" {
				patch["notes"] = intent.Task.Notes
			}
			if intent.Task.Priority != "" {
				patch["priority"] = string(intent.Task.Priority)
			}
			if intent.Task.Due != nil {
				patch["due"] = intent.Task.Due.Format(time.RFC3339)
			}
		}
		for k, v := range intent.Updates {
			patch[k] = v
		}
		updated, err := adapter.Update(ctx, id, patch)
		if err != nil {
			return nil, Wrap(ErrorKindProviderError, "updating task", err)
		}
		return domain.SuccessResponse(domain.ProviderTask, "updated", updated, fmt.Sprintf("Updated task %q", updated.Title)), nil
	}
}

// resolveTaskReference implements single-entity resolution over
// the active task list. It always lists tasks and asks the resolver; a
// reference that is already a task id is not recognized as one and goes
// through the same resolution as free text.
func (d *Dispatcher) resolveTaskReference(ctx context.Context, adapter *task.Adapter, reference, operation string) (string, error) {
	all, err := adapter.List(ctx)
	if err != nil {
		return "", Wrap(ErrorKindProviderError, "listing tasks", err)
	}
	var candidates []interpret.Candidate
	for _, t := range all {
		if domain.ActiveTaskStatuses[t.Status] {
			candidates = append(candidates, interpret.Candidate{ID: t.ID, Title: t.Title})
		}
	}
	res, err := d.Interp.ResolveEntity(ctx, reference, operation, candidates)
	if err != nil {
		return "", err
	}
	if !res.Found {
		return "", ambiguousOrNotFound(res)
	}
	return res.ID, nil
}

func (d *Dispatcher) bulkCompleteTasks(ctx context.Context, call *Call, adapter *task.Adapter) (*domain.Response, error) {
	term := strings.ToLower(extractBulkSearchTerm(call.Query))

	if call.Approved {
		var ids []string
		if call.ActionData != nil {
			_ = json.Unmarshal(call.ActionData.Params, &struct {
				TaskIDs *[]string `json:"task_ids"`
			}{&ids})
		}
		return d.completeTasks(ctx, adapter, ids), nil
	}

	all, err := adapter.List(ctx)
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "listing tasks", err)
	}
	var matched []task.Task
	for _, t := range all {
		if !domain.ActiveTaskStatuses[t.Status] {
			continue
		}
		if term == "" || strings.Contains(strings.ToLower(t.Title), term) {
			matched = append(matched, t)
		}
	}
	ids := make([]string, 0, len(matched))
	titles := make([]string, 0, len(matched))
	for _, t := range matched {
		ids = append(ids, t.ID)
		titles = append(titles, t.Title)
	}
	record := &domain.ActionRecord{
		Kind: domain.ActionBulkComplete,
		Params: mustJSON(map[string]any{"task_ids": ids}),
		Preview: domain.Preview{
			Summary: fmt.Sprintf("Complete %d tasks matching %q", len(ids), term),
			Details: map[string]any{"titles": titles},
		},
	}
	return domain.NeedsApprovalResponse(record), nil
}

func (d *Dispatcher) completeTasks(ctx context.Context, adapter *task.Adapter, ids []string) *domain.Response {
	var completed, failed []map[string]any
	for _, id := range ids {
		t, err := adapter.MarkComplete(ctx, id)
		if err != nil {
			failed = append(failed, map[string]any{"id": id, "error": err.Error()})
			continue
		}
		completed = append(completed, map[string]any{"id": t.ID, "title": t.Title})
	}
	return domain.SuccessResponse(domain.ProviderTask, "bulk_completed",
		map[string]any{"completed": completed, "failed": failed},
		fmt.Sprintf("Completed %d of %d tasks", len(completed), len(ids)))
}

// manageEvent implements the calendar branch of manage_productivity
// specifics.
func (d *Dispatcher) manageEvent(ctx context.Context, call *Call) (*domain.Response, error) {
	intent, err := d.Interp.ParseEventIntent(ctx, call.Query, call.now())
	if err != nil {
		return nil, err
	}
	adapter := d.calendarAdapter(call.Context)

	switch intent.Operation {
	case domain.EventOpCreate:
		return d.createEvent(ctx, call, adapter, intent)
	case domain.EventOpUpdate:
		return d.updateEvent(ctx, call, adapter, intent)
	case domain.EventOpCancel:
		return d.cancelEvent(ctx, call, adapter, intent)
	default:
		return nil, New(ErrorKindValidation, fmt.Sprintf("unsupported event operation %q", intent.Operation))
	}
}

func draftFromIntent(intent *domain.EventIntent, now time.Time) *domain.EventDraft {
	start := intent.Start
	end := intent.End
	if !intent.HasExplicitDate {
		start = spliceOnto(start, now)
		end = spliceOnto(end, now)
	}
	if end.IsZero() || !end.After(start) {
		end = start.Add(time.Hour)
	}
	draft := &domain.EventDraft{
		Title: intent.Title,
		Start: start,
		End: end,
		Location: intent.Location,
		Description: intent.Description,
		Busy: true,
	}
	for _, p := range intent.Participants {
		draft.Participants = append(draft.Participants, domain.Participant{Name: p})
	}
	return draft
}

func spliceOnto(t, date time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, date.Location())
}

// createEvent implements duplicate detection, conflict detection and
// auto-reschedule, and the participant approval gate, in that order.
func (d *Dispatcher) createEvent(ctx context.Context, call *Call, adapter *calendar.Adapter, intent *domain.EventIntent) (*domain.Response, error) {
	draft := draftFromIntent(intent, call.now())
	if err := draft.Validate(); err != nil {
		return nil, Wrap(ErrorKindValidation, "invalid event draft", err)
	}

	window := draft.End.Sub(draft.Start)

	// Duplicate detection: events whose start lies within ±4h.
	nearby, err := adapter.List(ctx, primaryCalendarID, draft.Start.Add(-4*time.Hour), draft.Start.Add(4*time.Hour))
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "listing events for duplicate check", err)
	}
	for _, e := range nearby {
		if calendarintel.TitlesAreSimilar(e.Title, draft.Title) && absDuration(e.Start.Sub(draft.Start)) < time.Hour {
			record := &domain.ActionRecord{
				Kind: domain.ActionEventCreateDuplicate,
				Draft: mustJSON(draft),
				Preview: domain.Preview{
					Summary: fmt.Sprintf("A similar event %q already exists nearby", e.Title),
					Details: map[string]any{"existing_event": map[string]any{"id": e.ID, "title": e.Title, "start": e.Start}},
				},
			}
			return domain.NeedsApprovalResponse(record), nil
		}
	}

	// Conflict detection.
	busyWindow, err := adapter.List(ctx, primaryCalendarID, draft.Start.Add(-calendarintel.Buffer), draft.End.Add(calendarintel.Buffer))
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "listing events for conflict check", err)
	}
	var conflicting []calendar.Event
	for _, e := range busyWindow {
		if calendarintel.HasConflict(calendarintel.Interval{Start: draft.Start, End: draft.End}, calendarintel.Interval{Start: e.Start, End: e.End}) {
			conflicting = append(conflicting, e)
		}
	}

	if len(conflicting) == 0 {
		return d.createOrGateOnParticipants(ctx, adapter, draft, call.Context.Location())
	}

	busy := make([]calendarintel.Interval, len(busyWindow))
	for i, e := range busyWindow {
		busy[i] = calendarintel.Interval{Start: e.Start, End: e.End}
	}
	slot := calendarintel.NextAvailableSlot(draft.Start, window, busy)

	if draft.Solo() {
		rescheduled := *draft
		rescheduled.Start, rescheduled.End = slot.Start, slot.End
		created, err := adapter.Create(ctx, primaryCalendarID, call.Context.Timezone, &rescheduled)
		if err != nil {
			return nil, Wrap(ErrorKindProviderError, "creating rescheduled event", err)
		}
		return domain.SuccessResponse(domain.ProviderCalendar, "created", created,
			fmt.Sprintf("Event rescheduled to %s due to a conflict", slot.Start.Format(time.RFC3339))), nil
	}

	titles := make([]string, len(conflicting))
	for i, e := range conflicting {
		titles[i] = e.Title
	}
	rescheduled := *draft
	rescheduled.Start, rescheduled.End = slot.Start, slot.End
	record := &domain.ActionRecord{
		Kind: domain.ActionEventCreateConflictReschedule,
		Draft: mustJSON(&rescheduled),
		Preview: domain.Preview{
			Summary: "Requested time conflicts with existing events; suggesting an alternative",
			Details: map[string]any{
				"original_start": draft.Start, "suggested_start": slot.Start,
				"duration": window.String(), "conflicting_titles": titles,
			},
		},
	}
	return domain.NeedsApprovalResponse(record), nil
}

func (d *Dispatcher) createOrGateOnParticipants(ctx context.Context, adapter *calendar.Adapter, draft *domain.EventDraft, loc *time.Location) (*domain.Response, error) {
	_, needsApproval := approval.Resolve(domain.ActionEventCreate, approval.Context{HasParticipants: !draft.Solo()})
	if needsApproval {
		record := &domain.ActionRecord{
			Kind: domain.ActionEventCreateWithParticipants,
			Draft: mustJSON(draft),
			Preview: domain.Preview{
				Summary: fmt.Sprintf("Create %q with %d participant(s)", draft.Title, len(draft.Participants)),
				Details: map[string]any{"has_participants": true, "start": draft.Start},
			},
		}
		return domain.NeedsApprovalResponse(record), nil
	}
	created, err := adapter.Create(ctx, primaryCalendarID, loc.String(), draft)
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "creating event", err)
	}
	return domain.SuccessResponse(domain.ProviderCalendar, "created", created, fmt.Sprintf("Created event %q", created.Title)), nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// updateEvent fetches the original event, merges the model's partial
// update onto it, checks participants on the fetched event (not the
// interpreter's guess), applies the change, and re-queries to verify it
// persisted.
func (d *Dispatcher) updateEvent(ctx context.Context, call *Call, adapter *calendar.Adapter, intent *domain.EventIntent) (*domain.Response, error) {
	id, err := d.resolveEventReference(ctx, adapter, intent.EventReference, "update", call.now())
	if err != nil {
		return nil, err
	}
	original, err := adapter.Find(ctx, primaryCalendarID, id)
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "fetching original event", err)
	}

	patch := map[string]any{}
	if intent.Title != "" {
		patch["title"] = intent.Title
	}
	if !intent.Start.IsZero() {
		start := intent.Start
		if !intent.HasExplicitDate {
			start = spliceOnto(start, original.Start)
		}
		patch["when"] = map[string]any{"start_time": start.Unix()}
	}
	if intent.Location != "" {
		patch["location"] = intent.Location
	}
	if intent.Description != "" {
		patch["description"] = intent.Description
	}

	_, needsApproval := approval.Resolve(domain.ActionEventUpdate, approval.Context{HasParticipants: len(original.Participants) > 0})
	if needsApproval {
		record := &domain.ActionRecord{
			Kind: domain.ActionEventUpdateWithParticipants,
			Params: mustJSON(map[string]any{"event_id": id, "patch": patch}),
			Preview: domain.Preview{
				Summary: fmt.Sprintf("Update %q, which has %d participant(s)", original.Title, len(original.Participants)),
			},
		}
		return domain.NeedsApprovalResponse(record), nil
	}

	return d.applyEventUpdate(ctx, adapter, id, patch)
}

func (d *Dispatcher) applyEventUpdate(ctx context.Context, adapter *calendar.Adapter, id string, patch map[string]any) (*domain.Response, error) {
	updated, err := adapter.Update(ctx, primaryCalendarID, id, patch)
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "updating event", err)
	}
	reQueried, err := adapter.Find(ctx, primaryCalendarID, id)
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "re-querying event after update", err)
	}
	if when, ok := patch["when"].(map[string]any); ok {
		if wantStart, ok := toUnixSeconds(when["start_time"]); ok && reQueried.Start.Unix() != wantStart {
			return nil, New(ErrorKindSyncFailure, "update acknowledged but the start time did not persist")
		}
	}
	return domain.SuccessResponse(domain.ProviderCalendar, "updated", updated, fmt.Sprintf("Updated event %q", updated.Title)), nil
}

// toUnixSeconds normalizes a patch field that started life as an int64
// (freshly built update) or a float64 (round-tripped through JSON on the
// approved-retry path, via mustJSON/json.Unmarshal) to a single comparable
// type.
func toUnixSeconds(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func (d *Dispatcher) cancelEvent(ctx context.Context, call *Call, adapter *calendar.Adapter, intent *domain.EventIntent) (*domain.Response, error) {
	id, err := d.resolveEventReference(ctx, adapter, intent.EventReference, "cancel", call.now())
	if err != nil {
		return nil, err
	}
	original, err := adapter.Find(ctx, primaryCalendarID, id)
	if err != nil {
		return nil, Wrap(ErrorKindProviderError, "fetching event", err)
	}

	_, needsApproval := approval.Resolve(domain.ActionEventCancel, approval.Context{HasParticipants: len(original.Participants) > 0})
	if needsApproval {
		record := &domain.ActionRecord{
			Kind: domain.ActionEventCancelWithParticipants,
			Params: mustJSON(map[string]any{"event_id": id}),
			Preview: domain.Preview{
				Summary: fmt.Sprintf("Cancel %q, which has %d participant(s)", original.Title, len(original.Participants)),
			},
		}
		return domain.NeedsApprovalResponse(record), nil
	}
	if err := adapter.Destroy(ctx, primaryCalendarID, id); err != nil {
		return nil, Wrap(ErrorKindProviderError, "cancelling event", err)
	}
	return domain.SuccessResponse(domain.ProviderCalendar, "cancelled", map[string]any{"id": id}, fmt.Sprintf("Cancelled event %q", original.Title)), nil
}

func (d *Dispatcher) resolveEventReference(ctx context.Context, adapter *calendar.Adapter, reference, operation string, now time.Time) (string, error) {
	all, err := adapter.List(ctx, primaryCalendarID, now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0))
	if err != nil {
		return "", Wrap(ErrorKindProviderError, "listing events", err)
	}
	candidates := make([]interpret.Candidate, 0, len(all))
	for _, e := range all {
		candidates = append(candidates, interpret.Candidate{ID: e.ID, Title: e.Title})
	}
	res, err := d.Interp.ResolveEntity(ctx, reference, operation, candidates)
	if err != nil {
		return "", err
	}
	if !res.Found {
		return "", ambiguousOrNotFound(res)
	}
	return res.ID, nil
}

// executeApprovedAction resumes a previously suspended action from the
// caller-echoed ActionRecord (statelessness: the server never
// retains pending-approval records).
func (d *Dispatcher) executeApprovedAction(ctx context.Context, call *Call) (*domain.Response, error) {
	record := call.ActionData
	switch record.Kind {
	case domain.ActionTaskCreateDuplicate:
		var draft domain.TaskDraft
		if err := json.Unmarshal(record.Draft, &draft); err != nil {
			return nil, Wrap(ErrorKindValidation, "decoding action_data draft", err)
		}
		created, err := d.taskAdapter(call.Context).Create(ctx, &draft, "WORK")
		if err != nil {
			return nil, Wrap(ErrorKindProviderError, "creating task", err)
		}
		return domain.SuccessResponse(domain.ProviderTask, "created", created, fmt.Sprintf("Created task %q", created.Title)), nil

	case domain.ActionBulkComplete, domain.ActionBulkCancel, domain.ActionBulkDelete, domain.ActionBulkUpdate, domain.ActionBulkReschedule:
		var params struct {
			TaskIDs []string `json:"task_ids"`
		}
		_ = json.Unmarshal(record.Params, &params)
		return d.completeTasks(ctx, d.taskAdapter(call.Context), params.TaskIDs), nil

	case domain.ActionEventCreateDuplicate, domain.ActionEventCreateConflictReschedule, domain.ActionEventCreateWithParticipants:
		var draft domain.EventDraft
		if err := json.Unmarshal(record.Draft, &draft); err != nil {
			return nil, Wrap(ErrorKindValidation, "decoding action_data draft", err)
		}
		created, err := d.calendarAdapter(call.Context).Create(ctx, primaryCalendarID, call.Context.Timezone, &draft)
		if err != nil {
			return nil, Wrap(ErrorKindProviderError, "creating event", err)
		}
		msg := fmt.Sprintf("Created event %q", created.Title)
		if record.Kind == domain.ActionEventCreateConflictReschedule {
			msg = fmt.Sprintf("Event rescheduled and created at %s", created.Start.Format(time.RFC3339))
		}
		return domain.SuccessResponse(domain.ProviderCalendar, "created", created, msg), nil

	case domain.ActionEventUpdateWithParticipants:
		var params struct {
			EventID string `json:"event_id"`
			Patch map[string]any `json:"patch"`
		}
		if err := json.Unmarshal(record.Params, &params); err != nil {
			return nil, Wrap(ErrorKindValidation, "decoding action_data params", err)
		}
		return d.applyEventUpdate(ctx, d.calendarAdapter(call.Context), params.EventID, params.Patch)

	case domain.ActionEventCancelWithParticipants:
		var params struct {
			EventID string `json:"event_id"`
		}
		if err := json.Unmarshal(record.Params, &params); err != nil {
			return nil, Wrap(ErrorKindValidation, "decoding action_data params", err)
		}
		if err := d.calendarAdapter(call.Context).Destroy(ctx, primaryCalendarID, params.EventID); err != nil {
			return nil, Wrap(ErrorKindProviderError, "cancelling event", err)
		}
		return domain.SuccessResponse(domain.ProviderCalendar, "cancelled", map[string]any{"id": params.EventID}, "Cancelled event"), nil

	default:
		return nil, New(ErrorKindInternal, fmt.Sprintf("no executor registered for action kind %q", record.Kind))
	}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("pipeline: marshaling action data: %v", err))
	}
	return b
}
