package domain

import (
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
)

// Task is one bar, summary span or milestone on a project timeline.
// Dates are inclusive calendar dates.
type Task struct {
	ID           string
	ProjectID    string
	ParentID     *string
	Title        string
	StartDate    time.Time
	EndDate      time.Time
	DurationDays int
	ProgressPct  int
	IsMilestone  bool
	SortOrder    int
	Color        string
	Source       TaskSource
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsRoot reports whether the task has no owning parent.
func (t *Task) IsRoot() bool {
	return t.ParentID == nil || *t.ParentID == ""
}

// HasDates reports whether both start and end dates are set.
func (t *Task) HasDates() bool {
	return !t.StartDate.IsZero() && !t.EndDate.IsZero()
}

// SetSpan sets the dates and recomputes DurationDays as the inclusive
// calendar span. Milestones collapse to a single date with zero duration.
func (t *Task) SetSpan(start, end time.Time) {
	t.StartDate = calendar.DateOf(start)
	t.EndDate = calendar.DateOf(end)
	if t.IsMilestone {
		t.EndDate = t.StartDate
		t.DurationDays = 0
		return
	}
	t.DurationDays = calendar.SpanDays(t.StartDate, t.EndDate)
}

// Validate checks the invariants every stored task must satisfy.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.ProjectID == "" {
		return fmt.Errorf("task %q has no project", t.Title)
	}
	if !t.HasDates() {
		return fmt.Errorf("task %q needs both start and end dates", t.Title)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("task %q ends (%s) before it starts (%s)", t.Title,
			t.EndDate.Format(calendar.DateLayout), t.StartDate.Format(calendar.DateLayout))
	}
	if t.ProgressPct < 0 || t.ProgressPct > 100 {
		return fmt.Errorf("task %q progress %d must be between 0 and 100", t.Title, t.ProgressPct)
	}
	if t.DurationDays < 0 {
		return fmt.Errorf("task %q has negative duration", t.Title)
	}
	if t.IsMilestone && !t.StartDate.Equal(t.EndDate) {
		return fmt.Errorf("milestone %q must start and end on the same date", t.Title)
	}
	if t.Source != "" && !ValidTaskSources[string(t.Source)] {
		return fmt.Errorf("task %q has unknown source %q", t.Title, t.Source)
	}
	if t.ParentID != nil && *t.ParentID == t.ID {
		return fmt.Errorf("task %q cannot be its own parent", t.Title)
	}
	return nil
}
