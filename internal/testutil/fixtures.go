package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Monday is the fixed project start used by fixtures (2025-06-02).
var Monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

// Day returns Monday shifted by offset calendar days.
func Day(offset int) time.Time {
	return Monday.AddDate(0, 0, offset)
}

// Project options
type ProjectOption func(*domain.Project)

func WithDeadline(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.Deadline = &d
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithStartDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func WithWorkingDays(m calendar.Mask) ProjectOption {
	return func(p *domain.Project) {
		p.WorkingDays = m
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

// NewTestProject returns a Monday-to-Friday project starting on Monday.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:          uuid.New().String(),
		ShortID:     defaultShortID(name),
		Name:        name,
		StartDate:   Monday,
		WorkingDays: calendar.WeekdaysMask,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

// WithDays dates the task from Day(start) to Day(end).
func WithDays(start, end int) TaskOption {
	return func(t *domain.Task) {
		t.SetSpan(Day(start), Day(end))
	}
}

func WithSortOrder(i int) TaskOption {
	return func(t *domain.Task) {
		t.SortOrder = i
	}
}

func WithProgress(pct int) TaskOption {
	return func(t *domain.Task) {
		t.ProgressPct = pct
	}
}

func AsMilestone() TaskOption {
	return func(t *domain.Task) {
		t.IsMilestone = true
		t.SetSpan(t.StartDate, t.StartDate)
	}
}

func WithSource(s domain.TaskSource) TaskOption {
	return func(t *domain.Task) {
		t.Source = s
	}
}

// NewTestTask returns a manual root task spanning Monday to Tuesday.
func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Source:    domain.SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.SetSpan(Day(0), Day(1))
	for _, opt := range opts {
		opt(t)
	}
	return t
}
