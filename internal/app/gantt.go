package app

import (
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/timeline"
)

type GanttRequest struct {
	ProjectID string
	Zoom      timeline.Zoom
	// Collapsed lists summary task ids whose children are hidden.
	Collapsed []string
	// Today defaults to the current UTC date.
	Today *time.Time
}

func NewGanttRequest(projectID string) GanttRequest {
	return GanttRequest{ProjectID: projectID, Zoom: timeline.ZoomWeek}
}

type GanttResponse struct {
	Project  *domain.Project
	Chart    *timeline.Chart
	Warnings []Warning
	// TaskCount counts every task, including rows hidden by collapse.
	TaskCount int
}
