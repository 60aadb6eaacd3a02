package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type scheduleService struct {
	projects repository.ProjectRepo
	runs     repository.ScheduleRunRepo
	uow      db.UnitOfWork
	logger   logrus.FieldLogger
	observer UseCaseObserver
}

func NewScheduleService(
	projects repository.ProjectRepo,
	runs repository.ScheduleRunRepo,
	uow db.UnitOfWork,
	logger logrus.FieldLogger,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		projects: projects,
		runs:     runs,
		uow:      uow,
		logger:   loggerOrDiscard(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Regenerate builds the whole schedule in memory, then swaps it in for the
// project's current tasks and dependencies in one transaction. On any
// failure the previous schedule stays and a failed run is recorded.
func (s *scheduleService) Regenerate(ctx context.Context, req app.RegenerateRequest) (res *app.RegenerateResult, err error) {
	fields := map[string]any{"project_id": req.ProjectID, "mode": string(req.Mode)}
	defer observe(ctx, s.observer, "regenerate-schedule", time.Now().UTC(), fields, &err)

	proj, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	mode, err := schedule.ParseMode(string(req.Mode))
	if err != nil {
		return nil, &app.ScheduleError{Code: app.ScheduleErrInvalidInput, Message: err.Error(), Err: err}
	}

	run := &domain.ScheduleRun{
		ID:        uuid.New().String(),
		ProjectID: proj.ID,
		Mode:      mode,
		CreatedAt: time.Now().UTC(),
	}

	cal, err := proj.Calendar()
	if err != nil {
		return nil, s.fail(ctx, run, app.ScheduleErrInvalidCalendar, err)
	}
	start := proj.StartDate
	if req.StartDate != nil {
		start = calendar.DateOf(*req.StartDate)
	}

	built, err := schedule.Build(schedule.Input{
		ProjectID: proj.ID,
		StartDate: start,
		Calendar:  cal,
		Stages:    req.Stages,
		Items:     req.Items,
		Mode:      mode,
		Source:    req.Source,
	})
	if err != nil {
		return nil, s.fail(ctx, run, app.ScheduleErrInvalidInput, err)
	}
	fields["task_count"] = len(built.Tasks)
	fields["warning_count"] = len(built.Warnings)

	run.Status = domain.RunSucceeded
	run.TaskCount = len(built.Tasks)
	run.WarningCount = len(built.Warnings)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		if _, err := txDeps.DeleteByProject(ctx, proj.ID); err != nil {
			return err
		}
		if _, err := txTasks.DeleteByProject(ctx, proj.ID); err != nil {
			return err
		}
		for _, t := range built.Tasks {
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Title, err)
			}
		}
		return repository.NewSQLiteScheduleRunRepo(tx).Create(ctx, run)
	})
	if err != nil {
		return nil, s.fail(ctx, run, app.ScheduleErrPersistFailed, err)
	}

	warnings := app.FromScheduleWarnings(built.Warnings)
	for _, w := range warnings {
		s.logger.WithFields(logrus.Fields{"project_id": proj.ID, "code": w.Code, "item_id": w.TaskID}).Warn(w.Message)
	}
	first, last := built.Span()
	return &app.RegenerateResult{
		RunID:     run.ID,
		ProjectID: proj.ID,
		Mode:      mode,
		Tasks:     built.Tasks,
		Blocks:    built.Blocks,
		Start:     first,
		End:       last,
		Warnings:  warnings,
	}, nil
}

// fail records a failed run outside the rolled-back transaction and wraps
// the cause.
func (s *scheduleService) fail(ctx context.Context, run *domain.ScheduleRun, code app.ScheduleErrorCode, cause error) error {
	run.Status = domain.RunFailed
	run.TaskCount = 0
	run.WarningCount = 0
	run.Error = cause.Error()
	if err := s.runs.Create(ctx, run); err != nil {
		s.logger.WithError(err).WithField("project_id", run.ProjectID).Error("recording failed schedule run")
	}
	s.logger.WithError(cause).WithFields(logrus.Fields{"project_id": run.ProjectID, "code": code}).Error("schedule regeneration failed")
	return &app.ScheduleError{Code: code, Message: cause.Error(), Err: cause}
}

func (s *scheduleService) ListRuns(ctx context.Context, projectID string, limit int) ([]*domain.ScheduleRun, error) {
	return s.runs.ListByProject(ctx, projectID, limit)
}

// IsScheduleError reports whether err carries the given schedule error code.
func IsScheduleError(err error, code app.ScheduleErrorCode) bool {
	var se *app.ScheduleError
	return errors.As(err, &se) && se.Code == code
}

func loggerOrDiscard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
