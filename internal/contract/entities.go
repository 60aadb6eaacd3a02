package contract

import (
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
)

type Project struct {
	ID          string   `json:"id"`
	ShortID     string   `json:"short_id"`
	Name        string   `json:"name"`
	StartDate   string   `json:"start_date"`
	Deadline    *string  `json:"deadline,omitempty"`
	WorkingDays string   `json:"working_days"`
	DayNames    []string `json:"working_day_names"`
}

func ProjectFrom(p *domain.Project) Project {
	out := Project{
		ID:          p.ID,
		ShortID:     p.ShortID,
		Name:        p.Name,
		StartDate:   date(p.StartDate),
		WorkingDays: p.WorkingDays.String(),
		DayNames:    p.WorkingDays.Names(),
	}
	if p.Deadline != nil {
		d := date(*p.Deadline)
		out.Deadline = &d
	}
	return out
}

func ProjectsFrom(ps []*domain.Project) []Project {
	out := make([]Project, 0, len(ps))
	for _, p := range ps {
		out = append(out, ProjectFrom(p))
	}
	return out
}

type Task struct {
	ID           string  `json:"id"`
	ProjectID    string  `json:"project_id"`
	ParentID     *string `json:"parent_id,omitempty"`
	Title        string  `json:"title"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	DurationDays int     `json:"duration_days"`
	ProgressPct  int     `json:"progress_pct"`
	IsMilestone  bool    `json:"is_milestone"`
	SortOrder    int     `json:"sort_order"`
	Color        string  `json:"color,omitempty"`
	Source       string  `json:"source"`
}

func TaskFrom(t *domain.Task) Task {
	out := Task{
		ID:           t.ID,
		ProjectID:    t.ProjectID,
		Title:        t.Title,
		StartDate:    date(t.StartDate),
		EndDate:      date(t.EndDate),
		DurationDays: t.DurationDays,
		ProgressPct:  t.ProgressPct,
		IsMilestone:  t.IsMilestone,
		SortOrder:    t.SortOrder,
		Color:        t.Color,
		Source:       string(t.Source),
	}
	if !t.IsRoot() {
		pid := *t.ParentID
		out.ParentID = &pid
	}
	return out
}

func TasksFrom(ts []*domain.Task) []Task {
	out := make([]Task, 0, len(ts))
	for _, t := range ts {
		out = append(out, TaskFrom(t))
	}
	return out
}

type Dependency struct {
	PredecessorID string `json:"predecessor_id"`
	SuccessorID   string `json:"successor_id"`
}

func DependenciesFrom(ds []domain.Dependency) []Dependency {
	out := make([]Dependency, 0, len(ds))
	for _, d := range ds {
		out = append(out, Dependency{PredecessorID: d.PredecessorID, SuccessorID: d.SuccessorID})
	}
	return out
}

type ScheduleRun struct {
	ID           string    `json:"id"`
	Mode         string    `json:"mode"`
	Status       string    `json:"status"`
	TaskCount    int       `json:"task_count"`
	WarningCount int       `json:"warning_count"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func RunsFrom(rs []*domain.ScheduleRun) []ScheduleRun {
	out := make([]ScheduleRun, 0, len(rs))
	for _, r := range rs {
		out = append(out, ScheduleRun{
			ID:           r.ID,
			Mode:         string(r.Mode),
			Status:       string(r.Status),
			TaskCount:    r.TaskCount,
			WarningCount: r.WarningCount,
			Error:        r.Error,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(calendar.DateLayout)
}
