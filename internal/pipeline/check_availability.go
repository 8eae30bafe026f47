package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"agentcal/internal/calendarintel"
	"agentcal/internal/domain"
	"agentcal/internal/providers/task"
)

// CheckAvailability implements the check_availability capability:
// specific_time returns a conflict list, find_slots returns up to 5
// candidates ranked by confidence. Busy intervals are drawn from both the
// calendar provider and scheduled/in-progress task time blocks.
func (d *Dispatcher) CheckAvailability(ctx context.Context, call *Call) (*domain.Response, error) {
	if !call.Context.HasCalendarCredentials() {
		return domain.NeedsSetupResponse("calendar provider credentials are not configured"), nil
	}
	intent, err := d.Interp.ParseAvailabilityIntent(ctx, call.Query, call.now())
	if err != nil {
		return nil, err
	}
	duration := time.Duration(intent.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = 30 * time.Minute
	}

	switch intent.Kind {
	case domain.AvailabilitySpecificTime:
		at := intent.At
		if at.IsZero() {
			at = call.now()
		}
		window := calendarintel.Interval{Start: at, End: at.Add(duration)}
		busy, err := d.fetchBusyBlocks(ctx, call, at.Add(-calendarintel.Buffer), at.Add(duration).Add(calendarintel.Buffer))
		if err != nil {
			return nil, err
		}
		var conflicts []string
		for _, b := range busy {
			if calendarintel.HasConflict(window, b.Interval) {
				conflicts = append(conflicts, b.Title)
			}
		}
		return domain.SuccessResponse(domain.ProviderCalendar, "availability_checked", map[string]any{
			"available": len(conflicts) == 0,
			"conflicts": conflicts,
		}, availabilityMessage(len(conflicts) == 0)), nil

	default: // find_slots
		rangeStart, rangeEnd := call.now(), call.now().AddDate(0, 0, 7)
		if intent.TimeRange != nil {
			rangeStart, rangeEnd = intent.TimeRange.Start, intent.TimeRange.End
		}
		busyBlocks, err := d.fetchBusyBlocks(ctx, call, rangeStart, rangeEnd)
		if err != nil {
			return nil, err
		}
		busy := make([]calendarintel.Interval, len(busyBlocks))
		for i, b := range busyBlocks {
			busy[i] = b.Interval
		}

		var candidates []domain.SlotCandidate
		for day := rangeStart; day.Before(rangeEnd); day = day.AddDate(0, 0, 1) {
			if !intent.Preferences.PreferEvening && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
				continue
			}
			dayStart := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, day.Location())
			slot := calendarintel.NextAvailableSlot(dayStart, duration, busy)
			confidence := calendarintel.SlotConfidence(slot.Start, duration, intent.Preferences)
			candidates = append(candidates, domain.SlotCandidate{
				Start: slot.Start, End: slot.End, Confidence: confidence, OutsidePreferredHours: slot.OutsidePreferredHours,
			})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Confidence != candidates[j].Confidence {
				return candidates[i].Confidence > candidates[j].Confidence
			}
			return candidates[i].Start.Before(candidates[j].Start)
		})
		if len(candidates) > 5 {
			candidates = candidates[:5]
		}
		return domain.SuccessResponse(domain.ProviderCalendar, "availability_checked", map[string]any{
			"slots": candidates,
		}, fmt.Sprintf("Found %d candidate slot(s)", len(candidates))), nil
	}
}

// busyBlock is one interval of committed time, drawn from either a calendar
// event or a scheduled/in-progress task's time block.
type busyBlock struct {
	Interval calendarintel.Interval
	Title string
}

// fetchBusyBlocks fans calendar events and task time-blocks out in
// parallel and folds both into a single set of busy intervals covering
// [from, to). Task credentials are optional: when absent, availability is
// computed from the calendar alone.
func (d *Dispatcher) fetchBusyBlocks(ctx context.Context, call *Call, from, to time.Time) ([]busyBlock, error) {
	var (
		wg sync.WaitGroup
		events []busyBlock
		tasks []busyBlock
		evErr, taskErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		all, err := d.calendarAdapter(call.Context).List(ctx, primaryCalendarID, from, to)
		if err != nil {
			evErr = err
			return
		}
		events = make([]busyBlock, len(all))
		for i, e := range all {
			events[i] = busyBlock{Interval: calendarintel.Interval{Start: e.Start, End: e.End}, Title: e.Title}
		}
	}()

	if call.Context.HasTaskCredentials() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			all, err := d.taskAdapter(call.Context).List(ctx)
			if err != nil {
				taskErr = err
				return
			}
			tasks = taskBusyBlocks(all, from, to)
		}()
	}
	wg.Wait()
	if evErr != nil {
		return nil, Wrap(ErrorKindProviderError, "listing events", evErr)
	}
	if taskErr != nil {
		return nil, Wrap(ErrorKindProviderError, "listing tasks", taskErr)
	}
	return append(events, tasks...), nil
}

// taskBusyBlocks derives time blocks for scheduled/in-progress tasks: a task
// with a due date and a duration is assumed scheduled against its deadline,
// occupying [due-duration, due), matching how the provider places task time
// chunks.
func taskBusyBlocks(all []task.Task, from, to time.Time) []busyBlock {
	var out []busyBlock
	for _, t := range all {
		if t.Status != domain.TaskStatusScheduled && t.Status != domain.TaskStatusInProgress {
			continue
		}
		if t.Due == nil || t.DurationHours <= 0 {
			continue
		}
		end := *t.Due
		start := end.Add(-time.Duration(t.DurationHours * float64(time.Hour)))
		if start.Before(to) && end.After(from) {
			out = append(out, busyBlock{Interval: calendarintel.Interval{Start: start, End: end}, Title: t.Title})
		}
	}
	return out
}

func availabilityMessage(available bool) string {
	if available {
		return "The requested time is available"
	}
	return "The requested time conflicts with existing events"
}
