package tree

import (
	"testing"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleForest() *Forest {
	return Build([]*domain.Task{
		task("a", "", 0), task("a1", "a", 0), task("a1x", "a1", 0), task("a2", "a", 1),
		task("b", "", 1), task("b1", "b", 0),
	})
}

func TestFlatten_PreOrder(t *testing.T) {
	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b", "b1"}, ids(Flatten(sampleForest(), nil, false)))
}

func TestFlatten_RespectsCollapse(t *testing.T) {
	f := sampleForest()
	state := NewExpandState("a1", "b")

	assert.Equal(t, []string{"a", "a1", "a2", "b"}, ids(Flatten(f, state, true)))
	assert.Len(t, Flatten(f, state, false), 6, "collapse is ignored when not respected")
}

func TestFlatten_CollapsedAncestorHidesDescendants(t *testing.T) {
	state := NewExpandState("a")
	assert.Equal(t, []string{"a", "b", "b1"}, ids(Flatten(sampleForest(), state, true)))
}

func TestExpandState_Toggle(t *testing.T) {
	f := sampleForest()
	state := &ExpandState{}

	assert.True(t, state.IsExpanded("a"))
	assert.False(t, state.Toggle("a"))
	assert.Equal(t, []string{"a", "b", "b1"}, ids(Flatten(f, state, true)))

	assert.True(t, state.Toggle("a"))
	assert.Len(t, Flatten(f, state, true), 6)
}

func TestExpandState_CollapseAllAndExpandAll(t *testing.T) {
	f := sampleForest()
	state := &ExpandState{}

	state.CollapseAll(f)
	assert.Equal(t, []string{"a", "a1", "b"}, state.CollapsedIDs())
	assert.Equal(t, []string{"a", "b"}, ids(Flatten(f, state, true)))

	state.ExpandAll()
	assert.Empty(t, state.CollapsedIDs())
	assert.Len(t, Flatten(f, state, true), 6)
}

func TestExpandState_NilIsAllExpanded(t *testing.T) {
	var state *ExpandState
	assert.True(t, state.IsExpanded("anything"))
	assert.Nil(t, state.CollapsedIDs())
}
