package repository

import (
	"context"

	"github.com/alexanderramin/gantt/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	// Delete removes one task; its children become roots.
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	Delete(ctx context.Context, predecessorID, successorID string) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

type ScheduleRunRepo interface {
	Create(ctx context.Context, r *domain.ScheduleRun) error
	// ListByProject returns the newest runs first; limit <= 0 means all.
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.ScheduleRun, error)
}
