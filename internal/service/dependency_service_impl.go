package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
)

var (
	ErrDependencyCycle   = errors.New("dependency cycle")
	ErrInvalidDependency = errors.New("invalid dependency")
)

type dependencyService struct {
	deps     repository.DependencyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewDependencyService(deps repository.DependencyRepo, uow db.UnitOfWork, observers ...UseCaseObserver) DependencyService {
	return &dependencyService{deps: deps, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Add links predecessor to successor. Links are drawn only; they never move
// dates.
func (s *dependencyService) Add(ctx context.Context, predecessorID, successorID string) (dep *domain.Dependency, err error) {
	defer observe(ctx, s.observer, "add-dependency", time.Now().UTC(),
		map[string]any{"predecessor_id": predecessorID, "successor_id": successorID}, &err)

	if predecessorID == successorID {
		return nil, fmt.Errorf("%w: a task cannot depend on itself", ErrInvalidDependency)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		pred, err := txTasks.GetByID(ctx, predecessorID)
		if err != nil {
			return fmt.Errorf("predecessor: %w", err)
		}
		succ, err := txTasks.GetByID(ctx, successorID)
		if err != nil {
			return fmt.Errorf("successor: %w", err)
		}
		if pred.ProjectID != succ.ProjectID {
			return fmt.Errorf("%w: %q and %q belong to different projects", ErrInvalidDependency, pred.Title, succ.Title)
		}

		existing, err := txDeps.ListByProject(ctx, pred.ProjectID)
		if err != nil {
			return err
		}
		for _, d := range existing {
			if d.PredecessorID == predecessorID && d.SuccessorID == successorID {
				return fmt.Errorf("%w: %q already precedes %q", ErrInvalidDependency, pred.Title, succ.Title)
			}
		}
		if reachable(existing, successorID, predecessorID) {
			return fmt.Errorf("%w: %q already depends on %q", ErrDependencyCycle, pred.Title, succ.Title)
		}

		dep = &domain.Dependency{ProjectID: pred.ProjectID, PredecessorID: predecessorID, SuccessorID: successorID}
		return txDeps.Create(ctx, dep)
	})
	if err != nil {
		return nil, err
	}
	return dep, nil
}

func (s *dependencyService) Remove(ctx context.Context, predecessorID, successorID string) error {
	return s.deps.Delete(ctx, predecessorID, successorID)
}

func (s *dependencyService) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	return s.deps.ListByProject(ctx, projectID)
}

// reachable reports whether to can be reached from from by following links
// predecessor to successor.
func reachable(deps []domain.Dependency, from, to string) bool {
	next := make(map[string][]string, len(deps))
	for _, d := range deps {
		next[d.PredecessorID] = append(next[d.PredecessorID], d.SuccessorID)
	}
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		for _, n := range next[cur] {
			if !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return false
}
