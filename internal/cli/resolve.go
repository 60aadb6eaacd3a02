package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/tree"
)

// resolveProject accepts a short ID, a full UUID or a unique UUID prefix.
func resolveProject(ctx context.Context, app *App, ref string) (*domain.Project, error) {
	p, err := app.Projects.Resolve(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Project
	for _, p := range projects {
		if strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project not found: %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveTask finds a task of the project by WBS number ("1.2"), full id
// or unique id prefix.
func resolveTask(ctx context.Context, app *App, projectID, ref string) (*domain.Task, error) {
	if ref == "" {
		return nil, fmt.Errorf("task reference is required")
	}
	tasks, err := app.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for _, n := range tree.Flatten(tree.Build(tasks), nil, false) {
		if n.WBS == ref {
			return n.Task, nil
		}
	}

	var matches []*domain.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("task not found: %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func forestWarnings(f *tree.Forest) []app.Warning {
	return app.FromTreeWarnings(f.Warnings)
}
