package calendarintel

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestHasConflict(t *testing.T) {
	tests := []struct {
		name        string
		newI, exist Interval
		want        bool
	}{
		{
			name:  "overlapping intervals conflict",
			newI:  Interval{Start: mustParse(t, "2026-08-03T10:00:00Z"), End: mustParse(t, "2026-08-03T11:00:00Z")},
			exist: Interval{Start: mustParse(t, "2026-08-03T10:30:00Z"), End: mustParse(t, "2026-08-03T11:30:00Z")},
			want:  true,
		},
		{
			name:  "adjacent intervals outside buffer do not conflict",
			newI:  Interval{Start: mustParse(t, "2026-08-03T09:00:00Z"), End: mustParse(t, "2026-08-03T10:00:00Z")},
			exist: Interval{Start: mustParse(t, "2026-08-03T10:15:00Z"), End: mustParse(t, "2026-08-03T11:00:00Z")},
			want:  false,
		},
		{
			name:  "adjacent intervals within buffer conflict",
			newI:  Interval{Start: mustParse(t, "2026-08-03T09:00:00Z"), End: mustParse(t, "2026-08-03T10:00:00Z")},
			exist: Interval{Start: mustParse(t, "2026-08-03T10:05:00Z"), End: mustParse(t, "2026-08-03T11:00:00Z")},
			want:  true,
		},
		{
			name:  "far apart intervals do not conflict",
			newI:  Interval{Start: mustParse(t, "2026-08-03T09:00:00Z"), End: mustParse(t, "2026-08-03T10:00:00Z")},
			exist: Interval{Start: mustParse(t, "2026-08-04T09:00:00Z"), End: mustParse(t, "2026-08-04T10:00:00Z")},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasConflict(tt.newI, tt.exist))
		})
	}
}

func TestHasConflictProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genInterval := gen.Int64Range(0, 1_000_000).Map(func(startSec int64) Interval {
		start := time.Unix(startSec, 0).UTC()
		return Interval{Start: start, End: start.Add(30 * time.Minute)}
	})

	properties.Property("an interval always conflicts with itself", prop.ForAll(
		func(iv Interval) bool {
			return HasConflict(iv, iv)
		},
		genInterval,
	))

	properties.Property("conflict is symmetric", prop.ForAll(
		func(a, b Interval) bool {
			return HasConflict(a, b) == HasConflict(b, a)
		},
		genInterval, genInterval,
	))

	properties.TestingRun(t)
}
