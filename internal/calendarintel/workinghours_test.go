package calendarintel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsWorkingHours(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"weekday mid-morning", mustParse(t, "2026-08-03T10:00:00Z"), true},
		{"weekday at opening", mustParse(t, "2026-08-03T09:00:00Z"), true},
		{"weekday at closing is outside", mustParse(t, "2026-08-03T18:00:00Z"), false},
		{"weekday before opening", mustParse(t, "2026-08-03T08:59:00Z"), false},
		{"saturday during the day", mustParse(t, "2026-08-01T10:00:00Z"), false},
		{"sunday during the day", mustParse(t, "2026-08-02T10:00:00Z"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWorkingHours(tt.t))
		})
	}
}

func TestNextWorkingTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "already working hours is unchanged",
			in:   mustParse(t, "2026-08-03T10:00:00Z"),
			want: mustParse(t, "2026-08-03T10:00:00Z"),
		},
		{
			name: "early morning rolls to 9am same day",
			in:   mustParse(t, "2026-08-03T06:00:00Z"),
			want: mustParse(t, "2026-08-03T09:00:00Z"),
		},
		{
			name: "evening rolls to 9am next day",
			in:   mustParse(t, "2026-08-03T20:00:00Z"),
			want: mustParse(t, "2026-08-04T09:00:00Z"),
		},
		{
			name: "friday evening rolls over the weekend to monday",
			in:   mustParse(t, "2026-08-07T20:00:00Z"),
			want: mustParse(t, "2026-08-10T09:00:00Z"),
		},
		{
			name: "saturday rolls to monday",
			in:   mustParse(t, "2026-08-01T12:00:00Z"),
			want: mustParse(t, "2026-08-03T09:00:00Z"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NextWorkingTime(tt.in)))
		})
	}
}
