package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/interpret"
	"agentcal/internal/providers/calendar"
	"agentcal/internal/providers/task"
)

// FindAndAnalyze implements the find_and_analyze capability: parses
// scope/time-range/search filters, fetches tasks and events concurrently,
// and either returns the filtered items or a workload analysis.
func (d *Dispatcher) FindAndAnalyze(ctx context.Context, call *Call) (*domain.Response, error) {
	if !call.Context.HasTaskCredentials() && !call.Context.HasCalendarCredentials() {
		return domain.NeedsSetupResponse("neither provider is configured"), nil
	}
	intent, err := d.Interp.ParseSearchIntent(ctx, call.Query, call.now())
	if err != nil {
		return nil, err
	}

	tasks, events, err := d.fetchForSearch(ctx, call, intent)
	if err != nil {
		return nil, err
	}

	if intent.SearchText != "" {
		tasks, events, err = d.semanticFilter(ctx, intent.SearchText, tasks, events)
		if err != nil {
			return nil, err
		}
	}

	if intent.Intent == domain.SearchWorkloadAnalyze {
		return domain.SuccessResponse("", "workload_analysis", workloadAnalysis(tasks, events, call.now()), "Workload analysis complete"), nil
	}

	return domain.SuccessResponse("", "search", map[string]any{
		"tasks": tasks,
		"events": events,
	}, fmt.Sprintf("Found %d task(s) and %d event(s)", len(tasks), len(events))), nil
}

// fetchForSearch fans task and event reads out in parallel when both
// providers are in scope, applying the named time-range and status filters
// from the search intent.
func (d *Dispatcher) fetchForSearch(ctx context.Context, call *Call, intent *domain.SearchIntent) ([]task.Task, []calendar.Event, error) {
	var (
		wg sync.WaitGroup
		tasks []task.Task
		events []calendar.Event
		taskErr, evErr error
	)
	rangeStart, rangeEnd := resolveNamedRange(intent.Named, call.now())

	if intent.Scope != domain.SearchScopeEvents && call.Context.HasTaskCredentials() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			all, err := d.taskAdapter(call.Context).List(ctx)
			if err != nil {
				taskErr = err
				return
			}
			tasks = filterTasks(all, intent, rangeStart, rangeEnd, call.now())
		}()
	}
	if intent.Scope != domain.SearchScopeTasks && call.Context.HasCalendarCredentials() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			all, err := d.calendarAdapter(call.Context).List(ctx, primaryCalendarID, rangeStart, rangeEnd)
			if err != nil {
				evErr = err
				return
			}
			events = filterEvents(all, intent)
		}()
	}
	wg.Wait()
	if taskErr != nil {
		return nil, nil, Wrap(ErrorKindProviderError, "listing tasks", taskErr)
	}
	if evErr != nil {
		return nil, nil, Wrap(ErrorKindProviderError, "listing events", evErr)
	}
	return tasks, events, nil
}

func resolveNamedRange(named domain.NamedTimeRange, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch named {
	case domain.TimeRangeToday:
		return today, today.AddDate(0, 0, 1)
	case domain.TimeRangeTomorrow:
		return today.AddDate(0, 0, 1), today.AddDate(0, 0, 2)
	case domain.TimeRangeThisWeek:
		offset := (int(today.Weekday()) + 6) % 7 // days since Monday
		monday := today.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 7)
	case domain.TimeRangeNextWeek:
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset+7)
		return monday, monday.AddDate(0, 0, 7)
	case domain.TimeRangeOverdue:
		return today.AddDate(-5, 0, 0), now
	default:
		return today.AddDate(0, 0, -30), today.AddDate(0, 0, 60)
	}
}

func filterTasks(all []task.Task, intent *domain.SearchIntent, rangeStart, rangeEnd, now time.Time) []task.Task {
	var out []task.Task
	for _, t := range all {
		if !intent.IncludeCompleted && isInactiveTaskStatus(t.Status) {
			continue
		}
		if intent.Priority != "" && t.Priority != intent.Priority {
			continue
		}
		if intent.Named == domain.TimeRangeOverdue {
			if t.Due == nil || !t.Due.Before(now) {
				continue
			}
		} else if t.Due != nil && (t.Due.Before(rangeStart) || !t.Due.Before(rangeEnd)) && intent.Named != "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isInactiveTaskStatus(s domain.TaskStatus) bool {
	return s == domain.TaskStatusComplete || s == domain.TaskStatusCancelled || s == domain.TaskStatusArchived
}

func filterEvents(all []calendar.Event, intent *domain.SearchIntent) []calendar.Event {
	if len(intent.Participants) == 0 {
		return all
	}
	var out []calendar.Event
	for _, e := range all {
		if eventHasAnyParticipant(e, intent.Participants) {
			out = append(out, e)
		}
	}
	return out
}

func eventHasAnyParticipant(e calendar.Event, names []string) bool {
	for _, p := range e.Participants {
		for _, n := range names {
			if strings.EqualFold(p.Name, n) {
				return true
			}
		}
	}
	return false
}

// semanticFilter narrows tasks/events to the Semantic Search interpreter's
// matched ids when search keywords are present. Pure time-range queries skip
// semantic matching entirely — callers only reach here when SearchText is
// non-empty.
func (d *Dispatcher) semanticFilter(ctx context.Context, searchText string, tasks []task.Task, events []calendar.Event) ([]task.Task, []calendar.Event, error) {
	candidates := make([]interpret.Candidate, 0, len(tasks)+len(events))
	for _, t := range tasks {
		candidates = append(candidates, interpret.Candidate{ID: "task:" + t.ID, Title: t.Title})
	}
	for _, e := range events {
		candidates = append(candidates, interpret.Candidate{ID: "event:" + e.ID, Title: e.Title})
	}
	if len(candidates) == 0 {
		return tasks, events, nil
	}
	matched, err := d.Interp.SemanticMatch(ctx, searchText, candidates)
	if err != nil {
		return nil, nil, err
	}
	matchSet := make(map[string]bool, len(matched))
	for _, id := range matched {
		matchSet[id] = true
	}
	var outTasks []task.Task
	for _, t := range tasks {
		if matchSet["task:"+t.ID] {
			outTasks = append(outTasks, t)
		}
	}
	var outEvents []calendar.Event
	for _, e := range events {
		if matchSet["event:"+e.ID] {
			outEvents = append(outEvents, e)
		}
	}
	return outTasks, outEvents, nil
}

// workloadAnalysis computes the stats and insights from
// find_and_analyze specifics.
func workloadAnalysis(tasks []task.Task, events []calendar.Event, now time.Time) map[string]any {
	weekStart, weekEnd := resolveNamedRange(domain.TimeRangeThisWeek, now)

	var overdueTasks, thisWeekTasks int
	var totalTaskHours float64
	for _, t := range tasks {
		totalTaskHours += t.DurationHours
		if t.Due != nil && t.Due.Before(now) {
			overdueTasks++
		}
		if t.Due != nil && !t.Due.Before(weekStart) && t.Due.Before(weekEnd) {
			thisWeekTasks++
		}
	}

	var eventsToday, eventsThisWeek, meetingsWithOthers int
	var totalEventHours float64
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, e := range events {
		dur := e.End.Sub(e.Start).Hours()
		totalEventHours += dur
		if !e.Start.Before(today) && e.Start.Before(today.AddDate(0, 0, 1)) {
			eventsToday++
		}
		if !e.Start.Before(weekStart) && e.Start.Before(weekEnd) {
			eventsThisWeek++
		}
		if len(e.Participants) > 0 {
			meetingsWithOthers++
		}
	}

	committedHours := totalTaskHours + totalEventHours
	busyPct := committedHours / 40 * 100
	if busyPct > 100 {
		busyPct = 100
	}

	var insights []string
	if overdueTasks > 0 {
		insights = append(insights, fmt.Sprintf("%d overdue task(s)", overdueTasks))
	}
	if busyPct > 80 {
		insights = append(insights, "workload is over 80% of capacity")
	} else if busyPct < 40 {
		insights = append(insights, "workload is under 40% of capacity")
	}
	if meetingsWithOthers > 5 {
		insights = append(insights, "more than 5 meetings involve other participants")
	}
	if eventsToday > 4 {
		insights = append(insights, "more than 4 events scheduled today")
	}

	return map[string]any{
		"tasks": map[string]any{
			"total": len(tasks), "overdue": overdueTasks, "this_week": thisWeekTasks, "total_hours": totalTaskHours,
		},
		"events": map[string]any{
			"total": len(events), "today": eventsToday, "this_week": eventsThisWeek,
			"total_hours": totalEventHours, "with_others": meetingsWithOthers,
		},
		"committed_hours": committedHours,
		"busy_percentage": busyPct,
		"insights": insights,
	}
}
