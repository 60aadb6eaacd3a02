package timeline

import (
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/tree"
)

// Row is one visible line of the chart.
type Row struct {
	Node          *tree.Node
	Bar           Bar
	ProgressWidth int
	Expanded      bool
}

// Link is a dependency arrow between two visible rows.
type Link struct {
	FromID  string
	ToID    string
	FromRow int
	ToRow   int
	FromX   int
	ToX     int
}

// Chart is the complete render-ready geometry for one view.
type Chart struct {
	Range      DateRange
	Zoom       Zoom
	DayWidth   int
	TotalWidth int
	Rows       []Row
	Weeks      []WeekHeader
	Days       []DayHeader
	// TodayX is nil when today lies outside the range.
	TodayX *int
	Links  []Link
}

// Options controls Layout.
type Options struct {
	Zoom     Zoom
	Calendar *calendar.Calendar
	Today    time.Time
	Expand   *tree.ExpandState
	// Range overrides the range computed from the given nodes. Callers set it
	// from the full task list so collapsing rows does not rescale the axis.
	Range *DateRange
}

// Layout computes geometry for already-flattened nodes. Summary and leaf
// rows share TaskPosition; milestones get a fixed marker. Links whose ends
// are not both visible are dropped.
func Layout(nodes []*tree.Node, deps []domain.Dependency, opts Options) *Chart {
	zoom := opts.Zoom
	if zoom == "" {
		zoom = ZoomWeek
	}
	dw := DayWidth(zoom)

	var rng DateRange
	if opts.Range != nil {
		rng = *opts.Range
	} else {
		tasks := make([]*domain.Task, len(nodes))
		for i, n := range nodes {
			tasks[i] = n.Task
		}
		rng = ComputeDateRange(tasks, opts.Today)
	}

	c := &Chart{
		Range:      rng,
		Zoom:       zoom,
		DayWidth:   dw,
		TotalWidth: rng.Days() * dw,
		Weeks:      WeekHeaders(rng, dw),
		Days:       DayHeaders(rng, dw, opts.Calendar, opts.Today),
	}
	if !opts.Today.IsZero() && rng.Contains(opts.Today) {
		x := calendar.DaysBetween(rng.Start, calendar.DateOf(opts.Today)) * dw
		c.TodayX = &x
	}

	rowOf := make(map[string]int, len(nodes))
	for i, n := range nodes {
		row := Row{Node: n, Expanded: opts.Expand.IsExpanded(n.ID())}
		if n.Task.HasDates() {
			if n.Kind == tree.KindMilestone {
				row.Bar = MilestoneMarker(n.Task, rng, dw)
			} else {
				row.Bar = TaskPosition(n.Task, rng, dw)
				row.ProgressWidth = row.Bar.Width * n.Task.ProgressPct / 100
			}
		}
		c.Rows = append(c.Rows, row)
		rowOf[n.ID()] = i
	}

	for _, d := range deps {
		from, okFrom := rowOf[d.PredecessorID]
		to, okTo := rowOf[d.SuccessorID]
		if !okFrom || !okTo {
			continue
		}
		c.Links = append(c.Links, Link{
			FromID:  d.PredecessorID,
			ToID:    d.SuccessorID,
			FromRow: from,
			ToRow:   to,
			FromX:   c.Rows[from].Bar.Right(),
			ToX:     c.Rows[to].Bar.Left,
		})
	}
	return c
}
