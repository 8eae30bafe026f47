package pipeline

import (
	"testing"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/providers/calendar"
	"agentcal/internal/providers/task"

	"github.com/stretchr/testify/assert"
)

func TestResolveNamedRangeToday(t *testing.T) {
	now := time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC) // a Monday
	start, end := resolveNamedRange(domain.TimeRangeToday, now)
	assert.True(t, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC).Equal(start))
	assert.True(t, time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC).Equal(end))
}

func TestResolveNamedRangeThisWeekStartsOnMonday(t *testing.T) {
	// Thursday 2026-08-06
	now := time.Date(2026, 8, 6, 15, 0, 0, 0, time.UTC)
	start, end := resolveNamedRange(domain.TimeRangeThisWeek, now)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.True(t, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC).Equal(start))
	assert.True(t, start.AddDate(0, 0, 7).Equal(end))
}

func TestResolveNamedRangeNextWeek(t *testing.T) {
	now := time.Date(2026, 8, 6, 15, 0, 0, 0, time.UTC)
	start, _ := resolveNamedRange(domain.TimeRangeNextWeek, now)
	assert.True(t, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC).Equal(start))
}

func TestFilterTasksExcludesInactiveByDefault(t *testing.T) {
	due := time.Now().Add(time.Hour)
	tasks := []task.Task{
		{ID: "1", Status: domain.TaskStatusNew, Due: &due},
		{ID: "2", Status: domain.TaskStatusComplete, Due: &due},
	}
	intent := &domain.SearchIntent{}
	out := filterTasks(tasks, intent, time.Time{}, time.Time{}, time.Now())
	assert.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestFilterTasksIncludeCompleted(t *testing.T) {
	due := time.Now().Add(time.Hour)
	tasks := []task.Task{
		{ID: "1", Status: domain.TaskStatusNew, Due: &due},
		{ID: "2", Status: domain.TaskStatusComplete, Due: &due},
	}
	intent := &domain.SearchIntent{IncludeCompleted: true}
	out := filterTasks(tasks, intent, time.Time{}, time.Time{}, time.Now())
	assert.Len(t, out, 2)
}

func TestFilterTasksOverdueOnly(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	tasks := []task.Task{
		{ID: "overdue", Status: domain.TaskStatusNew, Due: &past},
		{ID: "future", Status: domain.TaskStatusNew, Due: &future},
		{ID: "no-due", Status: domain.TaskStatusNew},
	}
	intent := &domain.SearchIntent{Named: domain.TimeRangeOverdue}
	out := filterTasks(tasks, intent, time.Time{}, time.Time{}, now)
	assert.Len(t, out, 1)
	assert.Equal(t, "overdue", out[0].ID)
}

func TestFilterTasksPriorityFilter(t *testing.T) {
	tasks := []task.Task{
		{ID: "p1", Status: domain.TaskStatusNew, Priority: domain.Priority("P1")},
		{ID: "p2", Status: domain.TaskStatusNew, Priority: domain.Priority("P2")},
	}
	intent := &domain.SearchIntent{Priority: domain.Priority("P1")}
	out := filterTasks(tasks, intent, time.Time{}, time.Time{}, time.Now())
	assert.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)
}

func TestFilterEventsNoParticipantFilterReturnsAll(t *testing.T) {
	events := []calendar.Event{{ID: "1"}, {ID: "2"}}
	out := filterEvents(events, &domain.SearchIntent{})
	assert.Len(t, out, 2)
}

func TestFilterEventsByParticipant(t *testing.T) {
	events := []calendar.Event{
		{ID: "1", Participants: []domain.Participant{{Name: "Alice"}}},
		{ID: "2", Participants: []domain.Participant{{Name: "Bob"}}},
	}
	out := filterEvents(events, &domain.SearchIntent{Participants: []string{"alice"}})
	assert.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestWorkloadAnalysisCountsOverdueAndBusyPercentage(t *testing.T) {
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	pastDue := now.Add(-time.Hour)
	tasks := []task.Task{
		{ID: "1", Due: &pastDue, DurationHours: 2},
	}
	events := []calendar.Event{
		{ID: "e1", Start: now, End: now.Add(2 * time.Hour), Participants: []domain.Participant{{Name: "Bob"}}},
	}

	result := workloadAnalysis(tasks, events, now)
	taskStats := result["tasks"].(map[string]any)
	assert.Equal(t, 1, taskStats["overdue"])

	eventStats := result["events"].(map[string]any)
	assert.Equal(t, 1, eventStats["with_others"])
	assert.Equal(t, 1, eventStats["today"])

	assert.InDelta(t, 4.0, result["committed_hours"].(float64), 0.0001)
	assert.InDelta(t, 10.0, result["busy_percentage"].(float64), 0.0001)
}

func TestWorkloadAnalysisFlagsOverCapacity(t *testing.T) {
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	tasks := []task.Task{{ID: "1", DurationHours: 40}}
	result := workloadAnalysis(tasks, nil, now)
	insights := result["insights"].([]string)
	assert.Contains(t, insights, "workload is over 80% of capacity")
}
