package formatter

import (
	"strings"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/timeline"
	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/charmbracelet/lipgloss"
)

// PixelsPerCell converts chart pixels to terminal columns.
const PixelsPerCell = 8

// GanttOptions controls RenderGantt. Zero values render everything.
type GanttOptions struct {
	LabelWidth int
	// Width caps the timeline columns; 0 means no cap.
	Width int
	// Offset is the first timeline column shown.
	Offset int
	// Cursor highlights one row; -1 for none.
	Cursor int
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellOffDay
	cellToday
	cellBar
	cellProgress
	cellSummary
	cellMilestone
)

// RenderGantt draws the chart as text: a label column with WBS and title,
// then a timeline with one column per PixelsPerCell pixels.
func RenderGantt(resp *app.GanttResponse, opts GanttOptions) string {
	c := resp.Chart
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = 32
	}
	cols := max(c.TotalWidth/PixelsPerCell, 1)
	from := min(max(opts.Offset, 0), cols-1)
	to := cols
	if opts.Width > 0 {
		to = min(from+opts.Width, cols)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", opts.LabelWidth+1))
	b.WriteString(string(weekHeaderLine(c, cols)[from:to]) + "\n")

	background := backgroundCells(c, cols)
	for i, row := range c.Rows {
		n := row.Node
		label := strings.Repeat(" ", n.Level*2) + KindBadge(n.Kind, row.Expanded) + " " + n.WBS + " " + n.Task.Title
		label = PadRight(label, opts.LabelWidth)
		if i == opts.Cursor {
			label = lipgloss.NewStyle().Reverse(true).Render(label)
		} else if n.Kind == tree.KindSummary {
			label = Bold(label)
		}

		cells := make([]cellKind, cols)
		copy(cells, background)
		paintBar(cells, row)
		b.WriteString(label + " " + renderCells(cells[from:to], TaskStyle(n.Task, n.Kind)) + "\n")
	}

	if len(c.Rows) == 0 {
		b.WriteString(Dim("No tasks to chart.") + "\n")
	}
	if w := FormatWarnings(resp.Warnings); w != "" {
		b.WriteString("\n" + w)
	}
	return b.String()
}

// weekHeaderLine places each week label at its first column. Labels too
// wide for their week are clipped; very narrow weeks get none.
func weekHeaderLine(c *timeline.Chart, cols int) []rune {
	line := []rune(strings.Repeat(" ", cols))
	for _, w := range c.Weeks {
		start := w.Left / PixelsPerCell
		width := max(w.Width/PixelsPerCell, 1)
		label := []rune(w.Label)
		if width < len(label) {
			if width < 3 {
				continue
			}
			label = label[:width]
		}
		for i, r := range label {
			if start+i < cols {
				line[start+i] = r
			}
		}
	}
	return line
}

func backgroundCells(c *timeline.Chart, cols int) []cellKind {
	cells := make([]cellKind, cols)
	for _, d := range c.Days {
		if d.Working {
			continue
		}
		from := d.Left / PixelsPerCell
		to := (d.Left + c.DayWidth) / PixelsPerCell
		for x := from; x < to && x < cols; x++ {
			cells[x] = cellOffDay
		}
	}
	if c.TodayX != nil {
		if x := *c.TodayX / PixelsPerCell; x >= 0 && x < cols {
			cells[x] = cellToday
		}
	}
	return cells
}

func paintBar(cells []cellKind, row timeline.Row) {
	if row.Bar.Width == 0 {
		return
	}
	if row.Node.Kind == tree.KindMilestone {
		x := (row.Bar.Left + row.Bar.Width/2) / PixelsPerCell
		if x >= 0 && x < len(cells) {
			cells[x] = cellMilestone
		}
		return
	}

	from := row.Bar.Left / PixelsPerCell
	to := from + max(row.Bar.Width/PixelsPerCell, 1)
	done := from + row.ProgressWidth/PixelsPerCell
	for x := max(from, 0); x < to && x < len(cells); x++ {
		switch {
		case row.Node.Kind == tree.KindSummary:
			cells[x] = cellSummary
		case x < done:
			cells[x] = cellProgress
		default:
			cells[x] = cellBar
		}
	}
}

var cellGlyph = map[cellKind]string{
	cellEmpty:     " ",
	cellOffDay:    "·",
	cellToday:     "│",
	cellBar:       "▒",
	cellProgress:  "█",
	cellSummary:   "━",
	cellMilestone: "◆",
}

// renderCells styles runs of equal cells together so the output stays short.
func renderCells(cells []cellKind, bar lipgloss.Style) string {
	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i
		for j < len(cells) && cells[j] == cells[i] {
			j++
		}
		run := strings.Repeat(cellGlyph[cells[i]], j-i)
		switch cells[i] {
		case cellEmpty:
			b.WriteString(run)
		case cellOffDay:
			b.WriteString(StyleDim.Render(run))
		case cellToday:
			b.WriteString(StyleRed.Render(run))
		default:
			b.WriteString(bar.Render(run))
		}
		i = j
	}
	return b.String()
}
