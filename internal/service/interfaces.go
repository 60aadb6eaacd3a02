package service

import (
	"context"
	"time"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a project id or a short id.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SetCalendar(ctx context.Context, id string, mask calendar.Mask) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// TaskService edits individual tasks. Every write re-derives the dates of
// the summary tasks above the edited one.
type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	SetProgress(ctx context.Context, id string, pct int) (*domain.Task, error)
	// Move re-parents a task; a nil parentID makes it a root.
	Move(ctx context.Context, id string, parentID *string, sortOrder *int) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type DependencyService interface {
	Add(ctx context.Context, predecessorID, successorID string) (*domain.Dependency, error)
	Remove(ctx context.Context, predecessorID, successorID string) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
}

type ScheduleService interface {
	app.RegenerateUseCase
	ListRuns(ctx context.Context, projectID string, limit int) ([]*domain.ScheduleRun, error)
}

type GanttService interface {
	app.GanttUseCase
}

type ImportService interface {
	app.ImportProjectUseCase
	// RegenerateFromSchema replaces the tasks of an existing project with the
	// ones described by the import; the schema's project block is ignored.
	// A non-nil start overrides the project start date.
	RegenerateFromSchema(ctx context.Context, projectID string, schema *importer.ImportSchema, start *time.Time) (*app.RegenerateResult, error)
}
