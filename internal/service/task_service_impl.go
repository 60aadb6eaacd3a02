package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/google/uuid"
)

var (
	// ErrValidation wraps every rejected field value.
	ErrValidation = errors.New("validation failed")
	// ErrSummaryDates is returned when a caller tries to set the dates of a
	// task that has children.
	ErrSummaryDates  = errors.New("summary task dates are derived from its children")
	ErrInvalidParent = errors.New("invalid parent")
	ErrParentCycle   = errors.New("parent cycle")
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create stores a new leaf or milestone. A missing start falls on the
// project's first working day; a missing end is derived from DurationDays
// as working-day effort (at least one day).
func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "create-task", time.Now().UTC(), map[string]any{"project_id": t.ProjectID}, &err)

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Source == "" {
		t.Source = domain.SourceManual
	}
	if t.Color == "" {
		t.Color = schedule.ColorManual
	}
	if t.ParentID != nil && *t.ParentID == "" {
		t.ParentID = nil
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		cal, proj, err := projectCalendar(ctx, tx, t.ProjectID)
		if err != nil {
			return err
		}

		start := t.StartDate
		if start.IsZero() {
			start = cal.NextWorkingDay(proj.StartDate)
		}
		end := t.EndDate
		if end.IsZero() && !t.IsMilestone {
			start = cal.NextWorkingDay(start)
			end = cal.AddWorkingDays(start, max(t.DurationDays, 1))
		}
		schedule.SetLeafSpan(cal, t, start, end)

		if t.ParentID != nil {
			if err := checkParent(ctx, txTasks, t, *t.ParentID); err != nil {
				return err
			}
		}
		if err := t.Validate(); err != nil {
			return invalid(err)
		}
		if err := txTasks.Create(ctx, t); err != nil {
			return err
		}
		return rollupProject(ctx, txTasks, t.ProjectID)
	})
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// Update saves title, dates, progress, milestone flag, colour and sort
// order. Parent and project are not changed here; use Move.
func (s *taskService) Update(ctx context.Context, t *domain.Task) (err error) {
	defer observe(ctx, s.observer, "update-task", time.Now().UTC(), map[string]any{"task_id": t.ID}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		existing, err := txTasks.GetByID(ctx, t.ID)
		if err != nil {
			return err
		}
		t.ProjectID = existing.ProjectID
		t.ParentID = existing.ParentID
		t.Source = existing.Source
		t.CreatedAt = existing.CreatedAt
		t.Title = strings.TrimSpace(t.Title)

		children, err := txTasks.ListChildren(ctx, t.ID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			if !sameDay(existing.StartDate, t.StartDate) || !sameDay(existing.EndDate, t.EndDate) {
				return fmt.Errorf("task %q: %w", existing.Title, ErrSummaryDates)
			}
			if t.IsMilestone {
				return fmt.Errorf("task %q has children and cannot be a milestone: %w", existing.Title, ErrInvalidParent)
			}
			t.StartDate, t.EndDate, t.DurationDays = existing.StartDate, existing.EndDate, existing.DurationDays
		} else {
			cal, _, err := projectCalendar(ctx, tx, t.ProjectID)
			if err != nil {
				return err
			}
			schedule.SetLeafSpan(cal, t, t.StartDate, t.EndDate)
		}

		if err := t.Validate(); err != nil {
			return invalid(err)
		}
		t.UpdatedAt = time.Now().UTC()
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		return rollupProject(ctx, txTasks, t.ProjectID)
	})
}

func (s *taskService) SetProgress(ctx context.Context, id string, pct int) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.ProgressPct = pct
	if err := t.Validate(); err != nil {
		return nil, invalid(err)
	}
	t.UpdatedAt = time.Now().UTC()
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) Move(ctx context.Context, id string, parentID *string, sortOrder *int) (moved *domain.Task, err error) {
	defer observe(ctx, s.observer, "move-task", time.Now().UTC(), map[string]any{"task_id": id}, &err)

	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		oldParent := t.ParentID

		if parentID != nil {
			if err := checkParent(ctx, txTasks, t, *parentID); err != nil {
				return err
			}
			all, err := txTasks.ListByProject(ctx, t.ProjectID)
			if err != nil {
				return err
			}
			for _, a := range schedule.Ancestors(all, *parentID) {
				if a.ID == t.ID {
					return fmt.Errorf("moving %q under %q: %w", t.Title, *parentID, ErrParentCycle)
				}
			}
			pid := *parentID
			t.ParentID = &pid
		} else {
			t.ParentID = nil
		}
		if sortOrder != nil {
			t.SortOrder = *sortOrder
		}
		t.UpdatedAt = time.Now().UTC()
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		if err := demoteIfChildless(ctx, tx, txTasks, oldParent); err != nil {
			return err
		}
		if err := rollupProject(ctx, txTasks, t.ProjectID); err != nil {
			return err
		}
		moved, err = txTasks.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Delete removes one task. Its children become roots; they are never
// deleted with it.
func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-task", time.Now().UTC(), map[string]any{"task_id": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txTasks.Delete(ctx, id); err != nil {
			return err
		}
		if err := demoteIfChildless(ctx, tx, txTasks, t.ParentID); err != nil {
			return err
		}
		return rollupProject(ctx, txTasks, t.ProjectID)
	})
}

func checkParent(ctx context.Context, tasks repository.TaskRepo, t *domain.Task, parentID string) error {
	if parentID == t.ID {
		return fmt.Errorf("task %q cannot be its own parent: %w", t.Title, ErrParentCycle)
	}
	parent, err := tasks.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("parent %s not found: %w", parentID, ErrInvalidParent)
		}
		return err
	}
	if parent.ProjectID != t.ProjectID {
		return fmt.Errorf("parent %q belongs to another project: %w", parent.Title, ErrInvalidParent)
	}
	if parent.IsMilestone {
		return fmt.Errorf("milestone %q cannot have children: %w", parent.Title, ErrInvalidParent)
	}
	return nil
}

// rollupProject re-derives every summary span of the project and stores the
// ones that changed.
func rollupProject(ctx context.Context, tasks repository.TaskRepo, projectID string) error {
	all, err := tasks.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, changed := range schedule.Rollup(all) {
		changed.UpdatedAt = now
		if err := tasks.Update(ctx, changed); err != nil {
			return fmt.Errorf("rolling up %q: %w", changed.Title, err)
		}
	}
	return nil
}

// demoteIfChildless turns a former summary back into a leaf whose duration
// is working-day effort again.
func demoteIfChildless(ctx context.Context, tx db.DBTX, tasks repository.TaskRepo, parentID *string) error {
	if parentID == nil || *parentID == "" {
		return nil
	}
	children, err := tasks.ListChildren(ctx, *parentID)
	if err != nil || len(children) > 0 {
		return err
	}
	parent, err := tasks.GetByID(ctx, *parentID)
	if err != nil {
		return err
	}
	cal, _, err := projectCalendar(ctx, tx, parent.ProjectID)
	if err != nil {
		return err
	}
	schedule.SetLeafSpan(cal, parent, parent.StartDate, parent.EndDate)
	parent.UpdatedAt = time.Now().UTC()
	return tasks.Update(ctx, parent)
}

func projectCalendar(ctx context.Context, tx db.DBTX, projectID string) (*calendar.Calendar, *domain.Project, error) {
	proj, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}
	cal, err := proj.Calendar()
	if err != nil {
		return nil, nil, fmt.Errorf("project %s: %w", proj.DisplayID(), err)
	}
	return cal, proj, nil
}

func sameDay(a, b time.Time) bool {
	return calendar.DateOf(a).Equal(calendar.DateOf(b))
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
