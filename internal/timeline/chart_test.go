package timeline

import (
	"testing"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartForest() *tree.Forest {
	parent := span("parent", 0, 4)
	c1 := span("c1", 0, 1)
	c1.ParentID = domain.StrPtr("parent")
	c1.ProgressPct = 50
	c2 := span("c2", 2, 4)
	c2.ParentID = domain.StrPtr("parent")
	c2.SortOrder = 1
	ms := &domain.Task{ID: "ms", Title: "handover", IsMilestone: true, SortOrder: 1}
	ms.SetSpan(day(7), day(7))
	return tree.Build([]*domain.Task{parent, c1, c2, ms})
}

func TestLayout_RowsShareGeometry(t *testing.T) {
	f := chartForest()
	nodes := tree.Flatten(f, nil, true)
	chart := Layout(nodes, nil, Options{
		Zoom:     ZoomDay,
		Calendar: calendar.MustNew(calendar.WeekdaysMask),
		Today:    day(1),
	})

	require.Len(t, chart.Rows, 4)
	assert.Equal(t, day(-7), chart.Range.Start)
	assert.Equal(t, 40, chart.DayWidth)
	assert.Equal(t, chart.Range.Days()*40, chart.TotalWidth)

	parent := chart.Rows[0]
	assert.Equal(t, tree.KindSummary, parent.Node.Kind)
	assert.Equal(t, TaskPosition(parent.Node.Task, chart.Range, 40), parent.Bar)

	c1 := chart.Rows[1]
	assert.Equal(t, 7*40, c1.Bar.Left)
	assert.Equal(t, c1.Bar.Width/2, c1.ProgressWidth)

	ms := chart.Rows[3]
	assert.Equal(t, tree.KindMilestone, ms.Node.Kind)
	assert.Equal(t, MilestoneSize, ms.Bar.Width)
	assert.Zero(t, ms.ProgressWidth)

	require.NotNil(t, chart.TodayX)
	assert.Equal(t, 8*40, *chart.TodayX)
}

func TestLayout_TodayOutsideRange(t *testing.T) {
	nodes := tree.Flatten(chartForest(), nil, true)
	chart := Layout(nodes, nil, Options{Today: day(400)})
	assert.Nil(t, chart.TodayX)
	assert.Equal(t, ZoomWeek, chart.Zoom)
}

func TestLayout_LinksOnlyBetweenVisibleRows(t *testing.T) {
	f := chartForest()
	deps := []domain.Dependency{
		{PredecessorID: "c1", SuccessorID: "c2"},
		{PredecessorID: "parent", SuccessorID: "ms"},
	}

	all := Layout(tree.Flatten(f, nil, true), deps, Options{Zoom: ZoomWeek})
	require.Len(t, all.Links, 2)
	link := all.Links[0]
	assert.Equal(t, 1, link.FromRow)
	assert.Equal(t, 2, link.ToRow)
	assert.Equal(t, all.Rows[1].Bar.Right(), link.FromX)
	assert.Equal(t, all.Rows[2].Bar.Left, link.ToX)

	state := tree.NewExpandState("parent")
	collapsed := Layout(tree.Flatten(f, state, true), deps, Options{Zoom: ZoomWeek, Expand: state})
	require.Len(t, collapsed.Links, 1)
	assert.Equal(t, "parent", collapsed.Links[0].FromID)
	assert.False(t, collapsed.Rows[0].Expanded)
}

func TestLayout_RangeOverrideKeepsAxisStable(t *testing.T) {
	f := chartForest()
	full := ComputeDateRange([]*domain.Task{f.Find("parent").Task, f.Find("ms").Task}, day(0))
	state := tree.NewExpandState("parent")

	chart := Layout(tree.Flatten(f, state, true), nil, Options{Range: &full})
	assert.Equal(t, full, chart.Range)
}
