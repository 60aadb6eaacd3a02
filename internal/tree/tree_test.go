package tree

import (
	"testing"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id, parent string, order int) *domain.Task {
	t := &domain.Task{ID: id, Title: "Task " + id, SortOrder: order}
	if parent != "" {
		p := parent
		t.ParentID = &p
	}
	return t
}

func wbsByID(nodes []*Node) map[string]string {
	out := make(map[string]string, len(nodes))
	for _, n := range nodes {
		out[n.ID()] = n.WBS
	}
	return out
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}

func TestBuild_LevelsAndWBS(t *testing.T) {
	f := Build([]*domain.Task{
		task("r1", "", 0),
		task("r2", "", 1),
		task("c1", "r2", 0),
		task("c2", "r2", 1),
		task("g1", "c2", 0),
	})

	require.Len(t, f.Roots, 2)
	assert.Empty(t, f.Warnings)
	assert.Equal(t, 5, f.Len())

	g1 := f.Find("g1")
	require.NotNil(t, g1)
	assert.Equal(t, 2, g1.Level)
	assert.Equal(t, "2.2.1", g1.WBS)
	assert.Equal(t, "2.1", f.Find("c1").WBS)
	assert.Equal(t, 0, f.Find("r1").Level)
}

func TestBuild_WBSFollowsSortOrderNotID(t *testing.T) {
	// Siblings listed as [B, A] by sort order; ids would sort the other way.
	f := Build([]*domain.Task{
		task("root", "", 0),
		task("A", "root", 2),
		task("B", "root", 1),
	})

	flat := Flatten(f, nil, false)
	assert.Equal(t, []string{"root", "B", "A"}, ids(flat))
	assert.Equal(t, "1.1", f.Find("B").WBS)
	assert.Equal(t, "1.2", f.Find("A").WBS)
}

func TestBuild_StableOnEqualSortOrder(t *testing.T) {
	f := Build([]*domain.Task{task("x", "", 0), task("y", "", 0), task("z", "", 0)})
	assert.Equal(t, []string{"x", "y", "z"}, ids(Flatten(f, nil, false)))
}

func TestBuild_KindDerivedOnce(t *testing.T) {
	ms := task("ms", "", 2)
	ms.IsMilestone = true
	f := Build([]*domain.Task{task("p", "", 0), task("c", "p", 0), ms, task("leaf", "", 1)})

	assert.Equal(t, KindSummary, f.Find("p").Kind)
	assert.Equal(t, KindLeaf, f.Find("c").Kind)
	assert.Equal(t, KindLeaf, f.Find("leaf").Kind)
	assert.Equal(t, KindMilestone, f.Find("ms").Kind)
}

func TestBuild_DanglingParentBecomesRootWithWarning(t *testing.T) {
	f := Build([]*domain.Task{task("a", "", 0), task("orphan", "gone", 1)})

	require.Len(t, f.Roots, 2)
	n := f.Find("orphan")
	require.NotNil(t, n)
	assert.Equal(t, 0, n.Level)
	assert.Equal(t, "2", n.WBS)

	require.Len(t, f.Warnings, 1)
	assert.Equal(t, WarningDanglingParent, f.Warnings[0].Code)
	assert.Equal(t, "orphan", f.Warnings[0].TaskID)
}

func TestBuild_ParentCycleIsBrokenAndReported(t *testing.T) {
	f := Build([]*domain.Task{task("ok", "", 0), task("a", "b", 0), task("b", "a", 0)})

	assert.Equal(t, 3, f.Len(), "every task must appear once")
	require.Len(t, f.Warnings, 1)
	assert.Equal(t, WarningParentCycle, f.Warnings[0].Code)
	flat := Flatten(f, nil, false)
	assert.Len(t, flat, 3)
}

func TestBuild_SelfParent(t *testing.T) {
	f := Build([]*domain.Task{task("self", "self", 0)})
	assert.Equal(t, 1, f.Len())
	require.Len(t, f.Warnings, 1)
	assert.Equal(t, WarningParentCycle, f.Warnings[0].Code)
}

func TestBuild_Empty(t *testing.T) {
	f := Build(nil)
	assert.Empty(t, f.Roots)
	assert.Empty(t, Flatten(f, nil, true))
}

func TestWBSMapIsDepthFirst(t *testing.T) {
	f := Build([]*domain.Task{
		task("a", "", 0), task("a1", "a", 0), task("a2", "a", 1),
		task("b", "", 1), task("b1", "b", 0),
	})
	assert.Equal(t, map[string]string{
		"a": "1", "a1": "1.1", "a2": "1.2", "b": "2", "b1": "2.1",
	}, wbsByID(Flatten(f, nil, false)))
}
