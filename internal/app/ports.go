package app

import (
	"context"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/importer"
)

type RegenerateUseCase interface {
	Regenerate(ctx context.Context, req RegenerateRequest) (*RegenerateResult, error)
}

type GanttUseCase interface {
	Gantt(ctx context.Context, req GanttRequest) (*GanttResponse, error)
}

type ImportResult struct {
	Project  *domain.Project
	Schedule *RegenerateResult
}

type ImportProjectUseCase interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
