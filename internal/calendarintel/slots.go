package calendarintel

import (
	"time"

	"agentcal/internal/domain"
)

const (
	slotRounding = 15 * time.Minute
	maxProbes = 200
	maxHorizon = 14 * 24 * time.Hour
)

// SlotResult describes a candidate or chosen slot from the next-available
// search, including whether it falls outside working hours.
type SlotResult struct {
	Start time.Time
	End time.Time
	OutsidePreferredHours bool
}

// roundUpTo15 rounds t forward to the next 15-minute boundary (or returns t
// unchanged if it already sits on one).
func roundUpTo15(t time.Time) time.Time {
	rem := t.Sub(t.Truncate(slotRounding))
	if rem == 0 {
		return t
	}
	return t.Truncate(slotRounding).Add(slotRounding)
}

// NextAvailableSlot implements the next-available-slot search:
// starting from the requested instant rounded up to the next 15-minute
// boundary, probe slots of the given duration forward; on conflict jump to
// existing_end+buffer and re-round; at most 200 probes or 14 days. The
// search prefers working hours but does not exclude non-working slots — it
// returns the first truly free slot and records whether it fell outside
// preferred hours. If every probe conflicts, it falls back to requested+1h
// so the search always returns a slot rather than failing outright.
func NextAvailableSlot(requested time.Time, duration time.Duration, busy []Interval) SlotResult {
	candidate := roundUpTo15(requested)
	deadline := requested.Add(maxHorizon)

	for probe := 0; probe < maxProbes; probe++ {
		if !candidate.Before(deadline) {
			break
		}
		window := Interval{Start: candidate, End: candidate.Add(duration)}
		conflict, conflicting := firstConflict(window, busy)
		if !conflict {
			return SlotResult{
				Start: candidate,
				End: candidate.Add(duration),
				OutsidePreferredHours: !IsWorkingHours(candidate),
			}
		}
		candidate = roundUpTo15(conflicting.End.Add(Buffer))
	}

	fallback := requested.Add(time.Hour)
	return SlotResult{
		Start: fallback,
		End: fallback.Add(duration),
		OutsidePreferredHours: !IsWorkingHours(fallback),
	}
}

func firstConflict(window Interval, busy []Interval) (bool, Interval) {
	for _, b := range busy {
		if HasConflict(window, b) {
			return true, b
		}
	}
	return false, Interval{}
}

// SlotConfidence implements the scoring function for find_slots
// candidates: base 0.5, modifiers for morning/afternoon preference, early/late
// hour penalties, and a deep-work bonus for long slots, clamped to [0,1].
func SlotConfidence(start time.Time, duration time.Duration, prefs domain.AvailabilityPreferences) float64 {
	score := 0.5
	hour := start.Hour()
	if prefs.PreferMorning && hour >= 9 && hour <= 11 {
		score += 0.3
	}
	if prefs.PreferAfternoon && hour >= 14 && hour <= 16 {
		score += 0.3
	}
	if hour < 9 {
		score -= 0.2
	}
	if hour >= 17 {
		score -= 0.2
	}
	if duration >= 120*time.Minute && prefs.DeepWork {
		score += 0.2
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
