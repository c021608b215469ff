package domain

import "time"

// Dates in this system are civil dates: time.Time values normalized to
// midnight UTC. All temporal rules take "today" as an explicit parameter
// (transported via pkg/requestcontext) so they stay deterministic in tests.

// Date builds a normalized civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate normalizes an arbitrary timestamp to its civil date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole days from a to b.
// Negative when b precedes a. Both arguments are normalized first, so the
// result never depends on time-of-day.
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)) / (24 * time.Hour))
}

// AddDays shifts a civil date by n days.
func AddDays(t time.Time, n int) time.Time {
	return Truncate(t).AddDate(0, 0, n)
}

// DatePtr is a convenience for optional date fields.
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}

// SameDate reports whether two timestamps fall on the same civil date.
func SameDate(a, b time.Time) bool {
	return Truncate(a).Equal(Truncate(b))
}
