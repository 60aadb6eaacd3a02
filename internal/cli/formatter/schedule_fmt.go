package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/tree"
)

// FormatRegenerate summarises a regeneration: one line per stage block, then
// warnings.
func FormatRegenerate(res *app.RegenerateResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s schedule: %d tasks, %s → %s\n\n",
		StyleGreen.Render("✔"), res.Mode, len(res.Tasks), FormatDate(res.Start), FormatDate(res.End))

	rows := make([][]string, 0, len(res.Blocks))
	for _, blk := range res.Blocks {
		rows = append(rows, []string{
			blk.Name,
			ISODate(blk.Start),
			ISODate(blk.End),
			strconv.Itoa(blk.TaskCount),
		})
	}
	b.WriteString(RenderTable([]string{"STAGE", "START", "END", "TASKS"}, rows))

	if w := FormatWarnings(res.Warnings); w != "" {
		b.WriteString("\n" + w)
	}
	return b.String()
}

func FormatRuns(runs []*domain.ScheduleRun) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		status := StyleGreen.Render(string(r.Status))
		if r.Status == domain.RunFailed {
			status = StyleRed.Render(string(r.Status))
		}
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(r.Mode),
			status,
			strconv.Itoa(r.TaskCount),
			strconv.Itoa(r.WarningCount),
			Truncate(r.Error, 60),
		})
	}
	return RenderTable([]string{"WHEN", "MODE", "STATUS", "TASKS", "WARNINGS", "ERROR"}, rows)
}

// FormatTaskTable lists tasks in WBS order with their ids.
func FormatTaskTable(nodes []*tree.Node) string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		t := n.Task
		title := strings.Repeat("  ", n.Level) + t.Title
		if n.Kind == tree.KindSummary {
			title = Bold(title)
		}
		rows = append(rows, []string{
			n.WBS,
			title,
			ISODate(t.StartDate),
			ISODate(t.EndDate),
			strconv.Itoa(t.DurationDays),
			RenderCompactBar(t.ProgressPct, 5) + fmt.Sprintf(" %3d%%", t.ProgressPct),
			SourceBadge(t.Source),
			TruncID(t.ID),
		})
	}
	return RenderTable([]string{"WBS", "TASK", "START", "END", "DAYS", "PROGRESS", "SOURCE", "ID"}, rows)
}
