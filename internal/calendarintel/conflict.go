package calendarintel

import "time"

// Buffer is the padding added to both ends of an existing event when testing
// for conflicts.
const Buffer = 10 * time.Minute

// Interval is a half-open time interval [Start, End).
type Interval struct {
	Start time.Time
	End time.Time
}

// HasConflict implements the buffer conflict predicate: two intervals
// conflict iff new_start < existing_end+buffer AND
// new_end > existing_start-buffer. It is symmetric, and an interval always
// conflicts with itself: HasConflict(a, a) is always true for any interval a.
func HasConflict(newInterval, existing Interval) bool {
	return newInterval.Start.Before(existing.End.Add(Buffer)) &&
		newInterval.End.After(existing.Start.Add(-Buffer))
}
