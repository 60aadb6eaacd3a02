// Package timeline maps tasks onto a zoomable time axis. Everything here is
// pure: the only clock input is the "today" date passed in by the caller.
package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
)

// Zoom is the horizontal scale of the chart.
type Zoom string

const (
	ZoomDay   Zoom = "day"
	ZoomWeek  Zoom = "week"
	ZoomMonth Zoom = "month"
)

// Zooms lists the levels from closest to farthest.
var Zooms = []Zoom{ZoomDay, ZoomWeek, ZoomMonth}

// MilestoneSize is the fixed marker width, independent of zoom.
const MilestoneSize = 16

func ParseZoom(s string) (Zoom, error) {
	switch z := Zoom(strings.ToLower(strings.TrimSpace(s))); z {
	case ZoomDay, ZoomWeek, ZoomMonth:
		return z, nil
	case "":
		return ZoomWeek, nil
	default:
		return "", fmt.Errorf("unknown zoom %q (want day, week or month)", s)
	}
}

// DayWidth returns pixels per day. It decreases as the zoom widens.
func DayWidth(z Zoom) int {
	switch z {
	case ZoomDay:
		return 40
	case ZoomMonth:
		return 8
	default:
		return 24
	}
}

// ZoomIn and ZoomOut step through Zooms, clamping at the ends.
func ZoomIn(z Zoom) Zoom  { return stepZoom(z, -1) }
func ZoomOut(z Zoom) Zoom { return stepZoom(z, 1) }

func stepZoom(z Zoom, delta int) Zoom {
	for i, candidate := range Zooms {
		if candidate == z {
			return Zooms[min(max(i+delta, 0), len(Zooms)-1)]
		}
	}
	return ZoomWeek
}

// DateRange is an inclusive date window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	return calendar.SpanDays(r.Start, r.End)
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	d = calendar.DateOf(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// ComputeDateRange spans every dated task, widened to whole weeks plus one
// week of margin per side. Without dated tasks it shows from the start of
// today's week to two months ahead.
func ComputeDateRange(tasks []*domain.Task, today time.Time) DateRange {
	var minStart, maxEnd time.Time
	for _, t := range tasks {
		if !t.HasDates() {
			continue
		}
		if minStart.IsZero() || t.StartDate.Before(minStart) {
			minStart = t.StartDate
		}
		if t.EndDate.After(maxEnd) {
			maxEnd = t.EndDate
		}
	}
	if minStart.IsZero() {
		today = calendar.DateOf(today)
		return DateRange{Start: calendar.StartOfWeek(today), End: today.AddDate(0, 2, 0)}
	}
	return DateRange{
		Start: calendar.AddDays(calendar.StartOfWeek(minStart), -7),
		End:   calendar.AddDays(calendar.EndOfWeek(maxEnd), 7),
	}
}

// Bar is horizontal geometry in pixels.
type Bar struct {
	Left  int `json:"left"`
	Width int `json:"width"`
}

// Right returns the pixel just past the bar.
func (b Bar) Right() int { return b.Left + b.Width }

// TaskPosition places a leaf or summary bar. A bar is never narrower than
// one day, even when start == end.
func TaskPosition(t *domain.Task, rng DateRange, dayWidth int) Bar {
	left := calendar.DaysBetween(rng.Start, t.StartDate) * dayWidth
	width := max(calendar.DaysBetween(t.StartDate, t.EndDate)*dayWidth, dayWidth)
	return Bar{Left: left, Width: width}
}

// MilestoneMarker centres a fixed-size marker on the milestone's day.
func MilestoneMarker(t *domain.Task, rng DateRange, dayWidth int) Bar {
	center := calendar.DaysBetween(rng.Start, t.StartDate)*dayWidth + dayWidth/2
	return Bar{Left: center - MilestoneSize/2, Width: MilestoneSize}
}

// WeekHeader is one bucket of the top header row.
type WeekHeader struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
	Left  int       `json:"left"`
	Width int       `json:"width"`
}

// WeekHeaders splits the range into 7-day buckets from its start. The last
// bucket is clipped to the range end.
func WeekHeaders(rng DateRange, dayWidth int) []WeekHeader {
	var out []WeekHeader
	for start := rng.Start; !start.After(rng.End); start = calendar.AddDays(start, 7) {
		end := calendar.AddDays(start, 6)
		if end.After(rng.End) {
			end = rng.End
		}
		out = append(out, WeekHeader{
			Start: start,
			End:   end,
			Label: start.Format("Jan 2"),
			Left:  calendar.DaysBetween(rng.Start, start) * dayWidth,
			Width: calendar.SpanDays(start, end) * dayWidth,
		})
	}
	return out
}

// DayHeader is one cell of the day header row.
type DayHeader struct {
	Date    time.Time `json:"date"`
	Label   string    `json:"label"`
	Left    int       `json:"left"`
	Working bool      `json:"working"`
	Today   bool      `json:"today"`
}

// DayHeaders returns one cell per day. Working flags come from cal.
func DayHeaders(rng DateRange, dayWidth int, cal *calendar.Calendar, today time.Time) []DayHeader {
	today = calendar.DateOf(today)
	out := make([]DayHeader, 0, rng.Days())
	for d := rng.Start; !d.After(rng.End); d = calendar.AddDays(d, 1) {
		out = append(out, DayHeader{
			Date:    d,
			Label:   d.Format("2"),
			Left:    calendar.DaysBetween(rng.Start, d) * dayWidth,
			Working: cal == nil || cal.IsWorkingDay(d),
			Today:   d.Equal(today),
		})
	}
	return out
}
