package calendar

import (
	"math"
	"time"
)

// DateLayout is the canonical calendar-date format.
const DateLayout = "2006-01-02"

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// AddDays moves d by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return DateOf(d).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b (negative when
// b is before a).
func DaysBetween(a, b time.Time) int {
	return int(math.Round(DateOf(b).Sub(DateOf(a)).Hours() / 24))
}

// SpanDays is the inclusive number of calendar days covered by [start, end].
func SpanDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// StartOfWeek returns the Monday on or before d.
func StartOfWeek(d time.Time) time.Time {
	return AddDays(d, -Index(d.Weekday()))
}

// EndOfWeek returns the Sunday on or after d.
func EndOfWeek(d time.Time) time.Time {
	return AddDays(StartOfWeek(d), 6)
}
