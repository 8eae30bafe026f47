package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/providers/calendar"
	"agentcal/internal/providers/task"

	"github.com/stretchr/testify/assert"
)

func TestScheduleSummaryIncludesCommittedAndFocusHours(t *testing.T) {
	rng := domain.TimeRange{
		Start: time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 3, 17, 0, 0, 0, time.UTC),
	}
	tasks := []task.Task{{Title: "Write report", Priority: domain.Priority("P1"), DurationHours: 2}}
	events := []calendar.Event{
		{Title: "Team sync", Start: rng.Start, End: rng.Start.Add(time.Hour), Participants: []domain.Participant{{Name: "Bob"}}},
	}

	summary := scheduleSummary(tasks, events, rng)
	assert.Contains(t, summary, "Committed hours: 3.0")
	assert.Contains(t, summary, "focus hours available: 5.0")
	assert.Contains(t, summary, "Meetings: 1 (1.0h)")
	assert.Contains(t, summary, "Write report")
	assert.Contains(t, summary, "Team sync")
}

func TestScheduleSummaryClampsNegativeFocusHours(t *testing.T) {
	rng := domain.TimeRange{
		Start: time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC),
	}
	tasks := []task.Task{{Title: "Overbooked", DurationHours: 10}}
	summary := scheduleSummary(tasks, nil, rng)
	assert.True(t, strings.Contains(summary, "focus hours available: 0.0"))
}

func TestApplyOneSuggestionFocusTimeRejectsMissingStart(t *testing.T) {
	d := &Dispatcher{}
	call := &Call{Context: mustContext(t)}
	s := domain.OptimizationSuggestion{Type: domain.OptimizeFocusTime, Command: map[string]any{}}

	err := d.applyOneSuggestion(context.Background(), call, s)
	assert.Error(t, err)
}

func TestApplyOneSuggestionUnknownTypeIsNoop(t *testing.T) {
	d := &Dispatcher{}
	call := &Call{Context: mustContext(t)}
	s := domain.OptimizationSuggestion{Type: domain.OptimizationType("unrecognized")}

	err := d.applyOneSuggestion(context.Background(), call, s)
	assert.NoError(t, err)
}

func TestApplyOneSuggestionPriorityBasedNoopWithoutTaskID(t *testing.T) {
	d := &Dispatcher{}
	call := &Call{Context: mustContext(t)}
	s := domain.OptimizationSuggestion{Type: domain.OptimizePriorityBased, Command: map[string]any{}}

	err := d.applyOneSuggestion(context.Background(), call, s)
	assert.NoError(t, err)
}
