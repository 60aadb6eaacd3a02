// Package calendar decides which dates count as working days and performs
// all date arithmetic used by the scheduler and the timeline layout.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoWorkingDays is returned when a mask has no working day. Date
// arithmetic on such a mask would never terminate.
var ErrNoWorkingDays = errors.New("working-day mask has no working days")

// Mask is a Monday-first weekly availability pattern; true marks a working day.
type Mask [7]bool

// WeekdaysMask is the Monday to Friday default.
var WeekdaysMask = Mask{true, true, true, true, true, false, false}

var dayNames = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// Index maps a time.Weekday onto the Monday-first mask index (Sunday is 6).
func Index(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// Count returns the number of working days in the mask.
func (m Mask) Count() int {
	n := 0
	for _, ok := range m {
		if ok {
			n++
		}
	}
	return n
}

// Validate returns ErrNoWorkingDays when no day is set.
func (m Mask) Validate() error {
	if m.Count() == 0 {
		return ErrNoWorkingDays
	}
	return nil
}

// String renders the mask as a 7-character bit string ("1111100").
func (m Mask) String() string {
	var b strings.Builder
	for _, ok := range m {
		if ok {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Names returns the short names of the working days, Monday first.
func (m Mask) Names() []string {
	var out []string
	for i, ok := range m {
		if ok {
			out = append(out, dayNames[i])
		}
	}
	return out
}

// DayNames returns the Monday-first short weekday names used by ParseMask.
func DayNames() []string {
	return dayNames[:]
}

// ParseMask accepts a 7-character bit string ("1111100") or a comma
// separated list of day names and ranges ("mon-fri", "mon,wed,sat-sun").
// The result is not validated; call Validate or New before using it.
func ParseMask(s string) (Mask, error) {
	var m Mask
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return m, fmt.Errorf("empty working-day specification")
	}

	if len(s) == 7 && strings.Trim(s, "01") == "" {
		for i := range s {
			m[i] = s[i] == '1'
		}
		return m, nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		start, err := dayIndex(from)
		if err != nil {
			return m, err
		}
		end := start
		if isRange {
			if end, err = dayIndex(to); err != nil {
				return m, err
			}
		}
		for i := start; ; i = (i + 1) % 7 {
			m[i] = true
			if i == end {
				break
			}
		}
	}
	return m, nil
}

func dayIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	if len(name) >= 3 {
		name = name[:3]
	}
	for i, d := range dayNames {
		if d == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// Calendar performs working-day arithmetic over a validated Mask.
type Calendar struct {
	mask Mask
}

// New validates the mask and returns a Calendar. It fails fast with
// ErrNoWorkingDays so that no caller can loop on an all-false mask.
func New(mask Mask) (*Calendar, error) {
	if err := mask.Validate(); err != nil {
		return nil, err
	}
	return &Calendar{mask: mask}, nil
}

// MustNew is New for masks known to be valid at compile time.
func MustNew(mask Mask) *Calendar {
	c, err := New(mask)
	if err != nil {
		panic(err)
	}
	return c
}

// Mask returns the calendar's weekly pattern.
func (c *Calendar) Mask() Mask {
	return c.mask
}

// IsWorkingDay reports whether d falls on a working weekday.
func (c *Calendar) IsWorkingDay(d time.Time) bool {
	return c.mask[Index(d.Weekday())]
}

// NextWorkingDay returns d if it is a working day, otherwise the first
// working day after it. A validated mask always has one within a week.
func (c *Calendar) NextWorkingDay(d time.Time) time.Time {
	d = DateOf(d)
	for i := 0; i < 7; i++ {
		if c.IsWorkingDay(d) {
			return d
		}
		d = AddDays(d, 1)
	}
	// unreachable for a mask accepted by New
	panic(ErrNoWorkingDays)
}

// AddWorkingDays walks forward from start, counting start itself when it is
// a working day, and returns the date on which the n-th working day is
// consumed. n <= 0 returns start unchanged.
func (c *Calendar) AddWorkingDays(start time.Time, n int) time.Time {
	start = DateOf(start)
	if n <= 0 {
		return start
	}
	d := start
	counted := 0
	for {
		if c.IsWorkingDay(d) {
			counted++
			if counted == n {
				return d
			}
		}
		d = AddDays(d, 1)
	}
}

// WorkingDaysBetween counts working days in the inclusive range [from, to].
func (c *Calendar) WorkingDaysBetween(from, to time.Time) int {
	from, to = DateOf(from), DateOf(to)
	n := 0
	for d := from; !d.After(to); d = AddDays(d, 1) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}
