package calendarintel

import "time"

// IsWorkingHours reports whether t falls within 09:00-18:00 on a weekday,
// in t's own location.
func IsWorkingHours(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	h := t.Hour()
	return h >= 9 && h < 18
}

// NextWorkingTime rounds a non-working instant forward to the next working
// moment: if hour >= 18, jump to the next day at 09:00; if hour < 9, same day
// at 09:00; then skip Saturday/Sunday.
func NextWorkingTime(t time.Time) time.Time {
	if IsWorkingHours(t) {
		return t
	}
	loc := t.Location()
	y, m, d := t.Date()
	candidate := time.Date(y, m, d, 9, 0, 0, 0, loc)
	if t.Hour() >= 18 {
		candidate = candidate.AddDate(0, 0, 1)
	}
	for candidate.Weekday() == time.Saturday || candidate.Weekday() == time.Sunday {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}
