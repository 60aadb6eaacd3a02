package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	in := time.Date(2025, 6, 3, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), DateOf(in))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(day(0), day(0)))
	assert.Equal(t, 4, DaysBetween(day(0), day(4)))
	assert.Equal(t, -3, DaysBetween(day(3), day(0)))
}

func TestDaysBetween_AcrossDSTInLocalInput(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	a := time.Date(2025, 3, 29, 12, 0, 0, 0, loc)
	b := time.Date(2025, 3, 31, 12, 0, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(a, b))
}

func TestSpanDays_Inclusive(t *testing.T) {
	assert.Equal(t, 1, SpanDays(day(0), day(0)))
	assert.Equal(t, 5, SpanDays(day(0), day(4)))
}

func TestWeekBoundaries(t *testing.T) {
	assert.Equal(t, day(0), StartOfWeek(day(0)))
	assert.Equal(t, day(0), StartOfWeek(day(6)), "sunday belongs to the week that started monday")
	assert.Equal(t, day(6), EndOfWeek(day(2)))
	assert.Equal(t, day(13), EndOfWeek(day(7)))
}
