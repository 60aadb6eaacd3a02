package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "create-project", time.Now().UTC(), map[string]any{"short_id": p.ShortID}, &err)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if p.WorkingDays.Count() == 0 {
		p.WorkingDays = calendar.WeekdaysMask
	}
	p.StartDate = calendar.DateOf(p.StartDate)
	if p.Deadline != nil {
		d := calendar.DateOf(*p.Deadline)
		p.Deadline = &d
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err = p.Validate(); err != nil {
		return invalid(err)
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("project reference is required")
	}
	p, err := s.projects.GetByShortID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.projects.GetByID(ctx, ref)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := p.Validate(); err != nil {
		return invalid(err)
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

// SetCalendar replaces the working-day mask. Existing task dates are left
// alone; they move only on the next regeneration.
func (s *projectService) SetCalendar(ctx context.Context, id string, mask calendar.Mask) (p *domain.Project, err error) {
	defer observe(ctx, s.observer, "set-calendar", time.Now().UTC(), map[string]any{"project_id": id, "mask": mask.String()}, &err)

	if _, err = calendar.New(mask); err != nil {
		return nil, invalid(err)
	}
	p, err = s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.WorkingDays = mask
	p.UpdatedAt = time.Now().UTC()
	if err = s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}
