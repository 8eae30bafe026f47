package pipeline

import (
	"testing"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/providers/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityMessage(t *testing.T) {
	assert.Equal(t, "The requested time is available", availabilityMessage(true))
	assert.Equal(t, "The requested time conflicts with existing events", availabilityMessage(false))
}

func TestTaskBusyBlocksSchedulesAgainstDueDate(t *testing.T) {
	due := time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{Title: "Write report", Status: domain.TaskStatusScheduled, Due: &due, DurationHours: 2},
	}
	from := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)

	blocks := taskBusyBlocks(tasks, from, to)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Write report", blocks[0].Title)
	assert.True(t, blocks[0].Interval.Start.Equal(time.Date(2026, 8, 3, 13, 0, 0, 0, time.UTC)))
	assert.True(t, blocks[0].Interval.End.Equal(due))
}

func TestTaskBusyBlocksSkipsInactiveStatus(t *testing.T) {
	due := time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{Title: "Archived", Status: domain.TaskStatusComplete, Due: &due, DurationHours: 2},
		{Title: "New", Status: domain.TaskStatusNew, Due: &due, DurationHours: 2},
	}
	from := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)

	blocks := taskBusyBlocks(tasks, from, to)
	assert.Empty(t, blocks)
}

func TestTaskBusyBlocksSkipsMissingDueOrDuration(t *testing.T) {
	due := time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{Title: "No due date", Status: domain.TaskStatusInProgress, DurationHours: 2},
		{Title: "No duration", Status: domain.TaskStatusInProgress, Due: &due},
	}
	from := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)

	blocks := taskBusyBlocks(tasks, from, to)
	assert.Empty(t, blocks)
}

func TestTaskBusyBlocksExcludesOutOfRange(t *testing.T) {
	due := time.Date(2026, 8, 10, 15, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{Title: "Next week", Status: domain.TaskStatusScheduled, Due: &due, DurationHours: 1},
	}
	from := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)

	blocks := taskBusyBlocks(tasks, from, to)
	assert.Empty(t, blocks)
}
