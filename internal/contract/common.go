package contract

import (
	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/domain"
)

type WarningCode = app.WarningCode

const (
	WarningOrphanItem      WarningCode = app.WarningOrphanItem
	WarningDanglingParent  WarningCode = app.WarningDanglingParent
	WarningParentCycle     WarningCode = app.WarningParentCycle
	WarningDeadlineOverrun WarningCode = app.WarningDeadlineOverrun
)

type ScheduleErrorCode = app.ScheduleErrorCode

const (
	ScheduleErrInvalidCalendar ScheduleErrorCode = app.ScheduleErrInvalidCalendar
	ScheduleErrInvalidInput    ScheduleErrorCode = app.ScheduleErrInvalidInput
	ScheduleErrPersistFailed   ScheduleErrorCode = app.ScheduleErrPersistFailed
)

type ScheduleError = app.ScheduleError

type RegenerateRequest = app.RegenerateRequest

func NewRegenerateRequest(projectID string, mode domain.ScheduleMode) RegenerateRequest {
	return app.NewRegenerateRequest(projectID, mode)
}

type GanttRequest = app.GanttRequest

func NewGanttRequest(projectID string) GanttRequest {
	return app.NewGanttRequest(projectID)
}

// Warning is the wire form of app.Warning.
type Warning struct {
	Code    WarningCode `json:"code"`
	TaskID  string      `json:"task_id,omitempty"`
	Message string      `json:"message"`
}

func WarningsFrom(ws []app.Warning) []Warning {
	out := make([]Warning, 0, len(ws))
	for _, w := range ws {
		out = append(out, Warning{Code: w.Code, TaskID: w.TaskID, Message: w.Message})
	}
	return out
}

// Error is the body of every non-2xx API response.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
