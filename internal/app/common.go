package app

import (
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/alexanderramin/gantt/internal/tree"
)

type WarningCode string

const (
	WarningOrphanItem      WarningCode = WarningCode(schedule.WarningOrphanItem)
	WarningDanglingParent  WarningCode = WarningCode(tree.WarningDanglingParent)
	WarningParentCycle     WarningCode = WarningCode(tree.WarningParentCycle)
	WarningDeadlineOverrun WarningCode = "DEADLINE_OVERRUN"
)

// Warning is a recovered problem reported next to a successful result.
type Warning struct {
	Code    WarningCode
	TaskID  string
	Message string
}

func FromScheduleWarnings(ws []schedule.Warning) []Warning {
	out := make([]Warning, 0, len(ws))
	for _, w := range ws {
		out = append(out, Warning{Code: WarningCode(w.Code), TaskID: w.ItemID, Message: w.Message})
	}
	return out
}

func FromTreeWarnings(ws []tree.Warning) []Warning {
	out := make([]Warning, 0, len(ws))
	for _, w := range ws {
		out = append(out, Warning{Code: WarningCode(w.Code), TaskID: w.TaskID, Message: w.Message})
	}
	return out
}

type ScheduleErrorCode string

const (
	ScheduleErrInvalidCalendar ScheduleErrorCode = "INVALID_CALENDAR"
	ScheduleErrInvalidInput    ScheduleErrorCode = "INVALID_INPUT"
	ScheduleErrPersistFailed   ScheduleErrorCode = "PERSIST_FAILED"
)

// ScheduleError is returned by regeneration. Err keeps the underlying cause
// reachable through errors.Is and errors.As.
type ScheduleError struct {
	Code    ScheduleErrorCode
	Message string
	Err     error
}

func (e *ScheduleError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *ScheduleError) Unwrap() error { return e.Err }
