package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/tree"
)

func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "START", "DEADLINE", "WORKING DAYS"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		id := p.DisplayID()
		if id == "" {
			id = "--"
		}
		deadline := Dim("--")
		if p.Deadline != nil {
			deadline = ISODate(*p.Deadline)
		}
		rows = append(rows, []string{
			StyleBold.Render(id),
			p.Name,
			ISODate(p.StartDate),
			deadline,
			WorkingDays(p.WorkingDays),
		})
	}
	return RenderTable(headers, rows)
}

// ProjectInspectData is everything the inspect view shows.
type ProjectInspectData struct {
	Project *domain.Project
	Forest  *tree.Forest
	Deps    []domain.Dependency
	Runs    []*domain.ScheduleRun
}

func FormatProjectInspect(d ProjectInspectData) string {
	p := d.Project
	var info strings.Builder
	fmt.Fprintf(&info, "%s  %s\n", Bold(p.Name), Dim(p.DisplayID()))
	fmt.Fprintf(&info, "Start     %s\n", ISODate(p.StartDate))
	if p.Deadline != nil {
		fmt.Fprintf(&info, "Deadline  %s\n", ISODate(*p.Deadline))
	}
	fmt.Fprintf(&info, "Calendar  %s", WorkingDays(p.WorkingDays))

	var b strings.Builder
	b.WriteString(RenderBox("Project", info.String()))
	b.WriteString("\n\n")

	b.WriteString(Header("Tasks") + "\n")
	if d.Forest == nil || d.Forest.Len() == 0 {
		b.WriteString(Dim("No tasks. Generate a schedule or add tasks manually.") + "\n")
	} else {
		b.WriteString(RenderTaskTree(d.Forest))
		b.WriteString(Dim(fmt.Sprintf("%d tasks, %d links", d.Forest.Len(), len(d.Deps))) + "\n")
	}

	if len(d.Runs) > 0 {
		b.WriteString("\n" + Header("Last schedule run") + "\n")
		b.WriteString(FormatRuns(d.Runs[:1]))
	}
	return b.String()
}
