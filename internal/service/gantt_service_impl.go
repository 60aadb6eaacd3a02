package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/timeline"
	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/sirupsen/logrus"
)

type ganttService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	logger   logrus.FieldLogger
}

func NewGanttService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	logger logrus.FieldLogger,
) GanttService {
	return &ganttService{projects: projects, tasks: tasks, deps: deps, logger: loggerOrDiscard(logger)}
}

// Gantt reads the project's tasks and lays out the visible rows. The date
// axis always covers every task so collapsing rows does not rescale it.
func (s *ganttService) Gantt(ctx context.Context, req app.GanttRequest) (*app.GanttResponse, error) {
	zoom, err := timeline.ParseZoom(string(req.Zoom))
	if err != nil {
		return nil, &app.ScheduleError{Code: app.ScheduleErrInvalidInput, Message: err.Error(), Err: err}
	}
	proj, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	cal, err := proj.Calendar()
	if err != nil {
		return nil, &app.ScheduleError{Code: app.ScheduleErrInvalidCalendar, Message: err.Error(), Err: err}
	}

	tasks, err := s.tasks.ListByProject(ctx, proj.ID)
	if err != nil {
		return nil, err
	}
	deps, err := s.deps.ListByProject(ctx, proj.ID)
	if err != nil {
		return nil, err
	}

	today := calendar.DateOf(time.Now().UTC())
	if req.Today != nil {
		today = calendar.DateOf(*req.Today)
	}

	forest := tree.Build(tasks)
	expand := tree.NewExpandState(req.Collapsed...)
	rng := timeline.ComputeDateRange(tasks, today)
	chart := timeline.Layout(tree.Flatten(forest, expand, true), deps, timeline.Options{
		Zoom:     zoom,
		Calendar: cal,
		Today:    today,
		Expand:   expand,
		Range:    &rng,
	})

	warnings := app.FromTreeWarnings(forest.Warnings)
	if w, ok := deadlineOverrun(proj, tasks); ok {
		warnings = append(warnings, w)
	}
	for _, w := range warnings {
		s.logger.WithFields(logrus.Fields{"project_id": proj.ID, "code": w.Code, "task_id": w.TaskID}).Warn(w.Message)
	}

	return &app.GanttResponse{
		Project:   proj,
		Chart:     chart,
		Warnings:  warnings,
		TaskCount: len(tasks),
	}, nil
}

// deadlineOverrun reports the latest-ending task when it finishes after the
// project deadline.
func deadlineOverrun(proj *domain.Project, tasks []*domain.Task) (app.Warning, bool) {
	if proj.Deadline == nil {
		return app.Warning{}, false
	}
	var latest *domain.Task
	for _, t := range tasks {
		if latest == nil || t.EndDate.After(latest.EndDate) {
			latest = t
		}
	}
	if latest == nil || !latest.EndDate.After(*proj.Deadline) {
		return app.Warning{}, false
	}
	return app.Warning{
		Code:   app.WarningDeadlineOverrun,
		TaskID: latest.ID,
		Message: fmt.Sprintf("%q ends %s, %d days after the deadline %s",
			latest.Title, latest.EndDate.Format(calendar.DateLayout),
			calendar.DaysBetween(*proj.Deadline, latest.EndDate),
			proj.Deadline.Format(calendar.DateLayout)),
	}, true
}
