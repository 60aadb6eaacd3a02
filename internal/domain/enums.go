package domain

// TaskSource records where a task came from. It only affects badges and
// orphan handling, never date arithmetic.
type TaskSource string

const (
	SourceManual       TaskSource = "manual"
	SourceEstimate     TaskSource = "estimate"
	SourceCostEstimate TaskSource = "cost_estimate"
	SourceOffer        TaskSource = "offer"
)

// ValidTaskSources is the canonical set of accepted task source strings.
var ValidTaskSources = map[string]bool{
	"manual": true, "estimate": true, "cost_estimate": true, "offer": true,
}

type ScheduleMode string

const (
	ModeGeneral  ScheduleMode = "general"
	ModeDetailed ScheduleMode = "detailed"
)

type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)
