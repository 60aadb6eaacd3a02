package schedule

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-02 is a Monday.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return monday.AddDate(0, 0, offset) }

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%02d", n)
	}
}

func weekdays() *calendar.Calendar { return calendar.MustNew(calendar.WeekdaysMask) }

func byTitle(tasks []*domain.Task) map[string]*domain.Task {
	out := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		out[t.Title] = t
	}
	return out
}

func TestBuild_GeneralScenario(t *testing.T) {
	res, err := Build(Input{
		ProjectID: "p1",
		StartDate: monday,
		Calendar:  weekdays(),
		Mode:      ModeGeneral,
		Stages: []Stage{
			{ID: "A", Name: "Stage A", SortOrder: 0},
			{ID: "B", Name: "Stage B", SortOrder: 1},
		},
		Items: []Item{
			{ID: "i1", StageID: "A", Name: "one", DurationDays: 1},
			{ID: "i2", StageID: "A", Name: "two", DurationDays: 1},
			{ID: "i3", StageID: "A", Name: "three", DurationDays: 1},
		},
		NewID: seqIDs(),
	})
	require.NoError(t, err)
	require.Len(t, res.Tasks, 2)
	assert.Empty(t, res.Warnings)

	tasks := byTitle(res.Tasks)
	a, b := tasks["Stage A"], tasks["Stage B"]

	// max(3*2, 5) = 6 working days from Monday, start day included.
	assert.Equal(t, day(0), a.StartDate)
	assert.Equal(t, day(7), a.EndDate)
	assert.Equal(t, 6, a.DurationDays)

	// Stage B takes the 5-day floor starting the next working day.
	assert.Equal(t, day(8), b.StartDate)
	assert.True(t, b.StartDate.After(a.EndDate))
	assert.Equal(t, 5, b.DurationDays)
	assert.Equal(t, day(14), b.EndDate)

	for _, task := range res.Tasks {
		assert.True(t, task.IsRoot())
		assert.Equal(t, ColorStage, task.Color)
		assert.Equal(t, domain.SourceEstimate, task.Source)
		assert.Equal(t, "p1", task.ProjectID)
	}
}

func TestBuild_DetailedScenario(t *testing.T) {
	res, err := Build(Input{
		StartDate: monday,
		Calendar:  weekdays(),
		Mode:      ModeDetailed,
		Stages:    []Stage{{ID: "S", Name: "Structure"}},
		Items: []Item{
			{ID: "i1", StageID: "S", Name: "Item 1", DurationDays: 2, SortOrder: 0},
			{ID: "i2", StageID: "S", Name: "Item 2", DurationDays: 3, SortOrder: 1},
		},
		NewID: seqIDs(),
	})
	require.NoError(t, err)
	require.Len(t, res.Tasks, 3)

	parent := res.Tasks[0]
	assert.Equal(t, "Structure", parent.Title, "parent is emitted before its children")

	tasks := byTitle(res.Tasks)
	i1, i2 := tasks["Item 1"], tasks["Item 2"]
	require.NotNil(t, i1.ParentID)
	assert.Equal(t, parent.ID, *i1.ParentID)
	assert.Equal(t, parent.ID, *i2.ParentID)

	assert.Equal(t, day(0), i1.StartDate)
	assert.Equal(t, day(1), i1.EndDate)
	assert.Equal(t, day(2), i2.StartDate)
	assert.Equal(t, day(4), i2.EndDate)

	assert.Equal(t, day(0), parent.StartDate)
	assert.Equal(t, day(4), parent.EndDate)
	assert.Equal(t, calendar.SpanDays(parent.StartDate, parent.EndDate), parent.DurationDays)
	assert.Equal(t, ColorItem, i1.Color)
}

func TestBuild_DetailedSummaryIsElapsedSpanNotEffort(t *testing.T) {
	// One 3-day item starting Thursday crosses a weekend: effort 3, span 5.
	res, err := Build(Input{
		StartDate: day(3),
		Calendar:  weekdays(),
		Mode:      ModeDetailed,
		Stages:    []Stage{{ID: "S", Name: "S"}},
		Items:     []Item{{ID: "i", StageID: "S", Name: "i", DurationDays: 3}},
	})
	require.NoError(t, err)
	parent, child := res.Tasks[0], res.Tasks[1]

	assert.Equal(t, 3, child.DurationDays)
	assert.Equal(t, day(7), parent.EndDate)
	assert.Equal(t, 5, parent.DurationDays)
}

func TestBuild_DetailedSkipsEmptyStages(t *testing.T) {
	res, err := Build(Input{
		StartDate: monday,
		Calendar:  weekdays(),
		Mode:      ModeDetailed,
		Stages:    []Stage{{ID: "A", Name: "A"}, {ID: "B", Name: "Empty", SortOrder: 1}, {ID: "C", Name: "C", SortOrder: 2}},
		Items: []Item{
			{ID: "a1", StageID: "A", Name: "a1", DurationDays: 1},
			{ID: "c1", StageID: "C", Name: "c1", DurationDays: 1},
		},
	})
	require.NoError(t, err)
	assert.NotContains(t, byTitle(res.Tasks), "Empty")
	assert.Len(t, res.Tasks, 4)
	require.Len(t, res.Blocks, 2)
	assert.Equal(t, day(1), res.Blocks[1].Start, "C follows A directly")
}

func TestBuild_ZeroDurationItemGetsOneDay(t *testing.T) {
	res, err := Build(Input{
		StartDate: monday,
		Calendar:  weekdays(),
		Mode:      ModeDetailed,
		Stages:    []Stage{{ID: "S", Name: "S"}},
		Items:     []Item{{ID: "i", StageID: "S", Name: "placeholder", DurationDays: 0}},
	})
	require.NoError(t, err)
	leaf := byTitle(res.Tasks)["placeholder"]
	assert.Equal(t, 1, leaf.DurationDays)
	assert.Equal(t, leaf.StartDate, leaf.EndDate)
}

func TestBuild_StartOnWeekendRollsForward(t *testing.T) {
	res, err := Build(Input{
		StartDate: day(5),
		Calendar:  weekdays(),
		Stages:    []Stage{{ID: "S", Name: "S"}},
	})
	require.NoError(t, err)
	assert.Equal(t, day(7), res.Tasks[0].StartDate)
}

func TestBuild_OrphansFollowAllStages(t *testing.T) {
	for _, mode := range []Mode{ModeGeneral, ModeDetailed} {
		t.Run(string(mode), func(t *testing.T) {
			res, err := Build(Input{
				StartDate: monday,
				Calendar:  weekdays(),
				Mode:      mode,
				Stages:    []Stage{{ID: "A", Name: "A"}, {ID: "B", Name: "B", SortOrder: 1}},
				Items: []Item{
					{ID: "x", StageID: "missing", Name: "orphan x", DurationDays: 2, SortOrder: 0},
					{ID: "a1", StageID: "A", Name: "a1", DurationDays: 2, SortOrder: 1},
					{ID: "y", Name: "orphan y", DurationDays: 1, SortOrder: 2},
					{ID: "b1", StageID: "B", Name: "b1", DurationDays: 2, SortOrder: 3},
				},
			})
			require.NoError(t, err)

			require.Len(t, res.Warnings, 2)
			assert.Equal(t, WarningOrphanItem, res.Warnings[0].Code)
			assert.Equal(t, "x", res.Warnings[0].ItemID)
			assert.Equal(t, "y", res.Warnings[1].ItemID)

			tasks := byTitle(res.Tasks)
			x, y := tasks["orphan x"], tasks["orphan y"]
			var lastStageEnd time.Time
			for _, task := range res.Tasks {
				if task.Color != ColorOrphan && task.EndDate.After(lastStageEnd) {
					lastStageEnd = task.EndDate
				}
			}
			assert.True(t, x.StartDate.After(lastStageEnd), "orphans are never interleaved")
			assert.True(t, y.StartDate.After(x.EndDate), "orphans run sequentially")
			assert.True(t, x.IsRoot())
			assert.True(t, y.IsRoot())
			assert.Equal(t, ColorOrphan, x.Color)
		})
	}
}

func TestBuild_Failures(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{"no calendar", Input{StartDate: monday}},
		{"no start", Input{Calendar: weekdays()}},
		{"bad mode", Input{StartDate: monday, Calendar: weekdays(), Mode: "gantt"}},
		{"duplicate stage", Input{StartDate: monday, Calendar: weekdays(), Stages: []Stage{{ID: "a"}, {ID: "a"}}}},
		{"negative duration", Input{StartDate: monday, Calendar: weekdays(), Items: []Item{{Name: "n", DurationDays: -1}}}},
	}
	for _, tc := range cases {
		res, err := Build(tc.in)
		require.Error(t, err, tc.name)
		assert.ErrorIs(t, err, ErrInvalidInput, tc.name)
		assert.Nil(t, res, tc.name)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Detailed")
	require.NoError(t, err)
	assert.Equal(t, ModeDetailed, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeGeneral, m)

	_, err = ParseMode("flat")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuild_EmptyInput(t *testing.T) {
	res, err := Build(Input{StartDate: monday, Calendar: weekdays()})
	require.NoError(t, err)
	assert.Empty(t, res.Tasks)
	start, end := res.Span()
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}

func randomInput(rng *rand.Rand, mode Mode) Input {
	var mask calendar.Mask
	for mask.Validate() != nil {
		for i := range mask {
			mask[i] = rng.Intn(2) == 0
		}
	}
	in := Input{
		StartDate: day(rng.Intn(14)),
		Calendar:  calendar.MustNew(mask),
		Mode:      mode,
	}
	stageCount := 1 + rng.Intn(5)
	for s := 0; s < stageCount; s++ {
		id := fmt.Sprintf("s%d", s)
		in.Stages = append(in.Stages, Stage{ID: id, Name: id, SortOrder: rng.Intn(10)})
		for i := rng.Intn(5); i > 0; i-- {
			in.Items = append(in.Items, Item{
				ID:           fmt.Sprintf("%s-%d", id, i),
				StageID:      id,
				Name:         fmt.Sprintf("%s item %d", id, i),
				DurationDays: rng.Intn(6),
				SortOrder:    rng.Intn(10),
			})
		}
	}
	return in
}

func TestBuild_SequentialStagesProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		mode := ModeGeneral
		if iter%2 == 1 {
			mode = ModeDetailed
		}
		in := randomInput(rng, mode)
		res, err := Build(in)
		require.NoError(t, err)

		for i := 1; i < len(res.Blocks); i++ {
			prev, next := res.Blocks[i-1], res.Blocks[i]
			assert.True(t, next.Start.After(prev.End),
				"iter %d: block %d starts %s, previous ends %s", iter, i, next.Start, prev.End)
		}
		for _, task := range res.Tasks {
			assert.False(t, task.EndDate.Before(task.StartDate))
			assert.GreaterOrEqual(t, task.DurationDays, 1)
			assert.True(t, in.Calendar.IsWorkingDay(task.StartDate), "tasks start on working days")
		}
	}
}

func TestBuild_DetailedRollupProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		res, err := Build(randomInput(rng, ModeDetailed))
		require.NoError(t, err)

		children := make(map[string][]*domain.Task)
		for _, task := range res.Tasks {
			if !task.IsRoot() {
				children[*task.ParentID] = append(children[*task.ParentID], task)
			}
		}
		for _, task := range res.Tasks {
			kids := children[task.ID]
			if len(kids) == 0 {
				continue
			}
			minStart, maxEnd := kids[0].StartDate, kids[0].EndDate
			for _, k := range kids[1:] {
				if k.StartDate.Before(minStart) {
					minStart = k.StartDate
				}
				if k.EndDate.After(maxEnd) {
					maxEnd = k.EndDate
				}
			}
			assert.Equal(t, minStart, task.StartDate)
			assert.Equal(t, maxEnd, task.EndDate)
			assert.Equal(t, calendar.SpanDays(task.StartDate, task.EndDate), task.DurationDays)
		}
	}
}
