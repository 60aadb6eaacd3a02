package contract

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/importer"
)

type Block struct {
	StageID   string `json:"stage_id"`
	Name      string `json:"name"`
	Start     string `json:"start"`
	End       string `json:"end"`
	TaskCount int    `json:"task_count"`
}

// Regenerate is the outcome of one schedule regeneration.
type Regenerate struct {
	RunID     string    `json:"run_id"`
	ProjectID string    `json:"project_id"`
	Mode      string    `json:"mode"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	TaskCount int       `json:"task_count"`
	Blocks    []Block   `json:"blocks"`
	Warnings  []Warning `json:"warnings"`
}

func RegenerateFrom(res *app.RegenerateResult) Regenerate {
	out := Regenerate{
		RunID:     res.RunID,
		ProjectID: res.ProjectID,
		Mode:      string(res.Mode),
		Start:     date(res.Start),
		End:       date(res.End),
		TaskCount: len(res.Tasks),
		Blocks:    make([]Block, 0, len(res.Blocks)),
		Warnings:  WarningsFrom(res.Warnings),
	}
	for _, b := range res.Blocks {
		out.Blocks = append(out.Blocks, Block{
			StageID:   b.StageID,
			Name:      b.Name,
			Start:     date(b.Start),
			End:       date(b.End),
			TaskCount: b.TaskCount,
		})
	}
	return out
}

// RegenerateBody is the POST /projects/{id}/schedule payload: an import
// schema without its project section, plus optional overrides.
type RegenerateBody struct {
	importer.ImportSchema
	StartDate string `json:"start_date,omitempty"`
}

// CalendarBody sets a project's working days, as a bit string or day list.
type CalendarBody struct {
	WorkingDays string `json:"working_days"`
}

func (b CalendarBody) Mask() (calendar.Mask, error) {
	m, err := calendar.ParseMask(b.WorkingDays)
	if err != nil {
		return m, err
	}
	return m, m.Validate()
}

// TaskBody creates or updates a task. Pointer fields left nil keep their
// current value on update.
type TaskBody struct {
	Title        *string `json:"title"`
	ParentID     *string `json:"parent_id"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	DurationDays *int    `json:"duration_days"`
	ProgressPct  *int    `json:"progress_pct"`
	IsMilestone  *bool   `json:"is_milestone"`
	SortOrder    *int    `json:"sort_order"`
	Color        *string `json:"color"`
}

type DependencyBody struct {
	PredecessorID string `json:"predecessor_id"`
	SuccessorID   string `json:"successor_id"`
}

func (b DependencyBody) Validate() error {
	var missing []string
	if strings.TrimSpace(b.PredecessorID) == "" {
		missing = append(missing, "predecessor_id")
	}
	if strings.TrimSpace(b.SuccessorID) == "" {
		missing = append(missing, "successor_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, " and "))
	}
	return nil
}
