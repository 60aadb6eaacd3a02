// Package tree builds the WBS-numbered task forest from a flat task list.
// Level, WBS and Kind are presentation derivations recomputed on every
// build and never persisted.
package tree

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/alexanderramin/gantt/internal/domain"
)

// Kind classifies a node for rendering.
type Kind string

const (
	KindLeaf      Kind = "leaf"
	KindSummary   Kind = "summary"
	KindMilestone Kind = "milestone"
)

type WarningCode string

const (
	WarningDanglingParent WarningCode = "DANGLING_PARENT"
	WarningParentCycle    WarningCode = "PARENT_CYCLE"
)

// Warning is a non-fatal data-integrity finding. The affected task is still
// part of the forest, demoted to a root.
type Warning struct {
	Code    WarningCode
	TaskID  string
	Message string
}

// Node is one task in the forest.
type Node struct {
	Task     *domain.Task
	Level    int
	WBS      string
	Kind     Kind
	Children []*Node
}

// ID returns the task id of the node.
func (n *Node) ID() string { return n.Task.ID }

// HasChildren reports whether the node owns any task.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// Forest is the root set plus the warnings raised while building it.
type Forest struct {
	Roots    []*Node
	Warnings []Warning

	index map[string]*Node
}

// Find returns the node for a task id, or nil.
func (f *Forest) Find(id string) *Node {
	return f.index[id]
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int {
	return len(f.index)
}

// Build groups tasks by parent, orders siblings by SortOrder (input order
// breaks ties) and assigns level, WBS and kind. A task whose parent is not
// in the list, or that is only reachable through a parent cycle, becomes a
// root and is reported as a warning.
func Build(tasks []*domain.Task) *Forest {
	f := &Forest{index: make(map[string]*Node, len(tasks))}

	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}

	children := make(map[string][]*domain.Task)
	var roots []*domain.Task
	for _, t := range tasks {
		switch {
		case t.IsRoot():
			roots = append(roots, t)
		case !known[*t.ParentID]:
			roots = append(roots, t)
			f.Warnings = append(f.Warnings, Warning{
				Code:    WarningDanglingParent,
				TaskID:  t.ID,
				Message: fmt.Sprintf("task %q references missing parent %s; shown as a root", t.Title, *t.ParentID),
			})
		default:
			children[*t.ParentID] = append(children[*t.ParentID], t)
		}
	}

	f.Roots = f.attach(roots, children, nil)

	// Anything still unvisited sits on a parent cycle.
	var stranded []*domain.Task
	for _, t := range tasks {
		if _, ok := f.index[t.ID]; !ok {
			stranded = append(stranded, t)
		}
	}
	for len(stranded) > 0 {
		t := stranded[0]
		f.Warnings = append(f.Warnings, Warning{
			Code:    WarningParentCycle,
			TaskID:  t.ID,
			Message: fmt.Sprintf("task %q is part of a parent cycle; shown as a root", t.Title),
		})
		// Break the cycle at t: it becomes a root and its subtree follows it.
		delete(children, domain.StrValue(t.ParentID))
		f.Roots = append(f.Roots, f.attach([]*domain.Task{t}, children, nil)...)
		next := stranded[:0]
		for _, s := range stranded[1:] {
			if _, ok := f.index[s.ID]; !ok {
				next = append(next, s)
			}
		}
		stranded = next
	}

	renumber(f.Roots, nil)
	return f
}

func (f *Forest) attach(siblings []*domain.Task, children map[string][]*domain.Task, parent *Node) []*Node {
	sorted := make([]*domain.Task, len(siblings))
	copy(sorted, siblings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	nodes := make([]*Node, 0, len(sorted))
	for _, t := range sorted {
		if _, seen := f.index[t.ID]; seen {
			continue
		}
		n := &Node{Task: t}
		if parent != nil {
			n.Level = parent.Level + 1
		}
		f.index[t.ID] = n
		n.Children = f.attach(children[t.ID], children, n)
		n.Kind = kindOf(n)
		nodes = append(nodes, n)
	}
	return nodes
}

func kindOf(n *Node) Kind {
	switch {
	case n.Task.IsMilestone:
		return KindMilestone
	case len(n.Children) > 0:
		return KindSummary
	default:
		return KindLeaf
	}
}

// renumber assigns 1-based dot-separated WBS paths and levels depth-first.
func renumber(nodes []*Node, parent *Node) {
	for i, n := range nodes {
		pos := strconv.Itoa(i + 1)
		if parent == nil {
			n.Level = 0
			n.WBS = pos
		} else {
			n.Level = parent.Level + 1
			n.WBS = parent.WBS + "." + pos
		}
		renumber(n.Children, n)
	}
}
