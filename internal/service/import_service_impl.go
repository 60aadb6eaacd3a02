package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/importer"
	"github.com/alexanderramin/gantt/internal/repository"
)

type importService struct {
	projects  repository.ProjectRepo
	schedules ScheduleService
	observer  UseCaseObserver
}

func NewImportService(projects repository.ProjectRepo, schedules ScheduleService, observers ...UseCaseObserver) ImportService {
	return &importService{
		projects:  projects,
		schedules: schedules,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportProjectFromSchema(ctx, schema)
}

// ImportProjectFromSchema creates the project described by the import and
// generates its schedule. If generation fails the new project is removed
// again.
func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (res *app.ImportResult, err error) {
	fields := map[string]any{"origin": schema.Origin}
	defer observe(ctx, s.observer, "import-project", time.Now().UTC(), fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, invalid(importer.FormatValidationErrors(errs))
	}
	proj, err := importer.ConvertProject(schema.Project)
	if err != nil {
		return nil, invalid(fmt.Errorf("converting project: %w", err))
	}
	if err = proj.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err = s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	fields["project_id"] = proj.ID

	sched, err := s.regenerate(ctx, proj.ID, schema, nil)
	if err != nil {
		if delErr := s.projects.Delete(ctx, proj.ID); delErr != nil {
			return nil, fmt.Errorf("%w (removing project: %v)", err, delErr)
		}
		return nil, err
	}
	return &app.ImportResult{Project: proj, Schedule: sched}, nil
}

func (s *importService) RegenerateFromSchema(ctx context.Context, projectID string, schema *importer.ImportSchema, start *time.Time) (*app.RegenerateResult, error) {
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, invalid(importer.FormatValidationErrors(errs))
	}
	return s.regenerate(ctx, projectID, schema, start)
}

func (s *importService) regenerate(ctx context.Context, projectID string, schema *importer.ImportSchema, start *time.Time) (*app.RegenerateResult, error) {
	norm, err := importer.Normalize(schema)
	if err != nil {
		return nil, fmt.Errorf("normalising import: %w", err)
	}
	req := app.NewRegenerateRequest(projectID, norm.Mode)
	req.Source = norm.Source
	req.Stages = norm.Stages
	req.Items = norm.Items
	req.StartDate = start
	return s.schedules.Regenerate(ctx, req)
}
