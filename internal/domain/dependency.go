package domain

import "time"

// Dependency is a finish-to-start link drawn between two tasks. It is
// displayed only; the scheduler never moves tasks to satisfy it.
type Dependency struct {
	ProjectID     string
	PredecessorID string
	SuccessorID   string
}

// ScheduleRun records one regeneration attempt for a project.
type ScheduleRun struct {
	ID           string
	ProjectID    string
	Mode         ScheduleMode
	Status       RunStatus
	TaskCount    int
	WarningCount int
	Error        string
	CreatedAt    time.Time
}
