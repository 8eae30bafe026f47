package pipeline

import (
	"testing"
	"time"

	"agentcal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBulkSearchTerm(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"delete all tasks with 'sprint cleanup'", "sprint cleanup"},
		{"complete all tasks with client review", "client review"},
		{"complete all my tasks", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBulkSearchTerm(tt.query))
		})
	}
}

func TestSpliceOntoPreservesDateFromReference(t *testing.T) {
	timeOfDay := time.Date(0, 1, 1, 14, 30, 0, 0, time.UTC)
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)

	got := spliceOnto(timeOfDay, now)
	want := time.Date(2026, 8, 3, 14, 30, 0, 0, time.UTC)
	assert.True(t, want.Equal(got))
}

func TestSpliceOntoZeroTimeStaysZero(t *testing.T) {
	var zero time.Time
	got := spliceOnto(zero, time.Now())
	assert.True(t, got.IsZero())
}

func TestAbsDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, absDuration(5*time.Minute))
	assert.Equal(t, 5*time.Minute, absDuration(-5*time.Minute))
	assert.Equal(t, time.Duration(0), absDuration(0))
}

func TestDraftFromIntentExplicitDate(t *testing.T) {
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	intent := &domain.EventIntent{
		Title:           "Planning",
		Start:           time.Date(2026, 8, 10, 15, 0, 0, 0, time.UTC),
		End:             time.Date(2026, 8, 10, 16, 0, 0, 0, time.UTC),
		HasExplicitDate: true,
		Participants:    []string{"a@example.com"},
	}
	draft := draftFromIntent(intent, now)

	assert.True(t, intent.Start.Equal(draft.Start))
	assert.True(t, intent.End.Equal(draft.End))
	require.Len(t, draft.Participants, 1)
	assert.Equal(t, "a@example.com", draft.Participants[0].Name)
	assert.True(t, draft.Busy)
}

func TestToUnixSecondsAcceptsInt64AndFloat64(t *testing.T) {
	got, ok := toUnixSeconds(int64(1700000000))
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), got)

	got, ok = toUnixSeconds(float64(1700000000))
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), got)

	_, ok = toUnixSeconds("not a number")
	assert.False(t, ok)
}

func TestDraftFromIntentSplicesOntoToday(t *testing.T) {
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	intent := &domain.EventIntent{
		Title:           "Standup",
		Start:           time.Date(0, 1, 1, 15, 0, 0, 0, time.UTC),
		End:             time.Date(0, 1, 1, 15, 30, 0, 0, time.UTC),
		HasExplicitDate: false,
	}
	draft := draftFromIntent(intent, now)

	want := time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC)
	assert.True(t, want.Equal(draft.Start))
	assert.True(t, draft.Solo())
}

func TestDraftFromIntentDefaultsMissingEnd(t *testing.T) {
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)
	intent := &domain.EventIntent{
		Title:           "Quick sync",
		Start:           time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC),
		HasExplicitDate: true,
	}
	draft := draftFromIntent(intent, now)

	want := draft.Start.Add(time.Hour)
	assert.True(t, want.Equal(draft.End))
}
