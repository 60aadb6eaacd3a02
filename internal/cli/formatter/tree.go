package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/charmbracelet/lipgloss"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTaskTree draws the forest with box-drawing connectors, WBS numbers
// and a right-aligned date badge per task.
func RenderTaskTree(f *tree.Forest) string {
	type line struct {
		content string
		badge   string
	}
	var lines []line
	widest := 0

	var walk func(nodes []*tree.Node, prefix string)
	walk = func(nodes []*tree.Node, prefix string) {
		for i, n := range nodes {
			last := i == len(nodes)-1
			connector, childPrefix := "", ""
			if n.Level > 0 {
				connector = treeBranch
				childPrefix = prefix + treePipe
				if last {
					connector = treeCorner
					childPrefix = prefix + treeBlank
				}
			}

			title := n.Task.Title
			if n.Kind == tree.KindSummary {
				title = Bold(title)
			}
			content := prefix + connector +
				TaskStyle(n.Task, n.Kind).Render(KindBadge(n.Kind, true)) + " " +
				Dim(n.WBS) + " " + title
			lines = append(lines, line{content: content, badge: taskBadge(n)})
			widest = max(widest, lipgloss.Width(content))

			walk(n.Children, childPrefix)
		}
	}
	walk(f.Roots, "")

	var b strings.Builder
	for _, l := range lines {
		pad := widest - lipgloss.Width(l.content)
		b.WriteString(l.content + strings.Repeat(" ", pad) + "  " + l.badge + "\n")
	}
	return b.String()
}

func taskBadge(n *tree.Node) string {
	t := n.Task
	if n.Kind == tree.KindMilestone {
		return StyleYellow.Render(fmt.Sprintf("[ %s ]", FormatDate(t.StartDate)))
	}
	badge := fmt.Sprintf("[ %s → %s · %dd ]", FormatDate(t.StartDate), FormatDate(t.EndDate), t.DurationDays)
	if t.ProgressPct > 0 {
		badge += " " + RenderCompactBar(t.ProgressPct, 6)
	}
	return StyleBlue.Render(badge)
}
