package app

import (
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/schedule"
)

// RegenerateRequest replaces a project's whole task tree with one generated
// from stage and item durations.
type RegenerateRequest struct {
	ProjectID string
	Mode      domain.ScheduleMode
	Source    domain.TaskSource
	Stages    []schedule.Stage
	Items     []schedule.Item
	// StartDate overrides the project's start date when set.
	StartDate *time.Time
}

func NewRegenerateRequest(projectID string, mode domain.ScheduleMode) RegenerateRequest {
	if mode == "" {
		mode = domain.ModeGeneral
	}
	return RegenerateRequest{
		ProjectID: projectID,
		Mode:      mode,
		Source:    domain.SourceEstimate,
	}
}

type RegenerateResult struct {
	RunID     string
	ProjectID string
	Mode      domain.ScheduleMode
	Tasks     []*domain.Task
	Blocks    []schedule.Block
	Start     time.Time
	End       time.Time
	Warnings  []Warning
}
