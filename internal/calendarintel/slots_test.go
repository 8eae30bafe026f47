package calendarintel

import (
	"testing"
	"time"

	"agentcal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUpTo15(t *testing.T) {
	assert.True(t, mustParse(t, "2026-08-03T10:00:00Z").Equal(roundUpTo15(mustParse(t, "2026-08-03T10:00:00Z"))))
	assert.True(t, mustParse(t, "2026-08-03T10:15:00Z").Equal(roundUpTo15(mustParse(t, "2026-08-03T10:01:00Z"))))
	assert.True(t, mustParse(t, "2026-08-03T10:45:00Z").Equal(roundUpTo15(mustParse(t, "2026-08-03T10:44:00Z"))))
}

func TestNextAvailableSlotNoConflict(t *testing.T) {
	requested := mustParse(t, "2026-08-03T10:01:00Z")
	result := NextAvailableSlot(requested, 30*time.Minute, nil)

	assert.True(t, mustParse(t, "2026-08-03T10:15:00Z").Equal(result.Start))
	assert.True(t, mustParse(t, "2026-08-03T10:45:00Z").Equal(result.End))
	assert.False(t, result.OutsidePreferredHours)
}

func TestNextAvailableSlotJumpsPastConflict(t *testing.T) {
	requested := mustParse(t, "2026-08-03T10:00:00Z")
	busy := []Interval{
		{Start: mustParse(t, "2026-08-03T10:00:00Z"), End: mustParse(t, "2026-08-03T10:30:00Z")},
	}
	result := NextAvailableSlot(requested, 30*time.Minute, busy)

	// first probe at 10:00 conflicts (within buffer of the busy block), so the
	// search jumps to busy.End+Buffer = 10:40, rounded up to 10:45.
	assert.True(t, mustParse(t, "2026-08-03T10:45:00Z").Equal(result.Start))
	require.False(t, result.OutsidePreferredHours)
}

func TestNextAvailableSlotFlagsOutsideWorkingHours(t *testing.T) {
	requested := mustParse(t, "2026-08-03T20:00:00Z")
	result := NextAvailableSlot(requested, 30*time.Minute, nil)

	assert.True(t, result.OutsidePreferredHours)
	assert.True(t, mustParse(t, "2026-08-03T20:00:00Z").Equal(result.Start))
}

func TestNextAvailableSlotFallsBackWhenFullyBooked(t *testing.T) {
	requested := mustParse(t, "2026-08-03T09:00:00Z")
	// one contiguous busy block covering every probe within the horizon
	busy := []Interval{
		{Start: requested.Add(-24 * time.Hour), End: requested.Add(30 * 24 * time.Hour)},
	}
	result := NextAvailableSlot(requested, 30*time.Minute, busy)

	assert.True(t, requested.Add(time.Hour).Equal(result.Start))
}

func TestSlotConfidence(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		duration time.Duration
		prefs    domain.AvailabilityPreferences
		want     float64
	}{
		{
			name:     "no preferences at midday is the base score",
			start:    mustParse(t, "2026-08-03T12:00:00Z"),
			duration: 30 * time.Minute,
			prefs:    domain.AvailabilityPreferences{},
			want:     0.5,
		},
		{
			name:     "morning preference matching an early slot",
			start:    mustParse(t, "2026-08-03T10:00:00Z"),
			duration: 30 * time.Minute,
			prefs:    domain.AvailabilityPreferences{PreferMorning: true},
			want:     0.8,
		},
		{
			name:     "before working hours is penalized",
			start:    mustParse(t, "2026-08-03T07:00:00Z"),
			duration: 30 * time.Minute,
			prefs:    domain.AvailabilityPreferences{},
			want:     0.3,
		},
		{
			name:     "after hours is penalized",
			start:    mustParse(t, "2026-08-03T19:00:00Z"),
			duration: 30 * time.Minute,
			prefs:    domain.AvailabilityPreferences{},
			want:     0.3,
		},
		{
			name:     "deep work bonus for a long slot",
			start:    mustParse(t, "2026-08-03T12:00:00Z"),
			duration: 150 * time.Minute,
			prefs:    domain.AvailabilityPreferences{DeepWork: true},
			want:     0.7,
		},
		{
			name:     "deep work bonus does not apply to short slots",
			start:    mustParse(t, "2026-08-03T12:00:00Z"),
			duration: 30 * time.Minute,
			prefs:    domain.AvailabilityPreferences{DeepWork: true},
			want:     0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SlotConfidence(tt.start, tt.duration, tt.prefs), 0.0001)
		})
	}
}

func TestSlotConfidenceClamped(t *testing.T) {
	// morning preference plus deep work at 10:00 scores 0.5+0.3+0.2=1.0 (the
	// afternoon bonus does not apply at 10:00), and a 05:00 slot with no
	// preferences scores 0.5-0.2=0.3. These are the highest and lowest
	// reachable scores, so the bounds are checked there; neither is clamped.
	start := mustParse(t, "2026-08-03T10:00:00Z")
	prefs := domain.AvailabilityPreferences{PreferMorning: true, PreferAfternoon: true, DeepWork: true}
	got := SlotConfidence(start, 150*time.Minute, prefs)
	assert.LessOrEqual(t, got, 1.0)

	lowStart := mustParse(t, "2026-08-03T05:00:00Z")
	gotLow := SlotConfidence(lowStart, 30*time.Minute, domain.AvailabilityPreferences{})
	assert.GreaterOrEqual(t, gotLow, 0.0)
}
