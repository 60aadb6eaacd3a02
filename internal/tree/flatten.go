package tree

import "sort"

// ExpandState is transient view state: which summary nodes are collapsed.
// Nodes are expanded unless marked otherwise. The zero value is usable.
type ExpandState struct {
	collapsed map[string]bool
}

// NewExpandState returns a state with the given ids collapsed.
func NewExpandState(collapsedIDs ...string) *ExpandState {
	s := &ExpandState{}
	for _, id := range collapsedIDs {
		s.Collapse(id)
	}
	return s
}

// IsExpanded reports whether the node's children should be emitted.
func (s *ExpandState) IsExpanded(id string) bool {
	if s == nil {
		return true
	}
	return !s.collapsed[id]
}

// Toggle flips one node's flag and returns the new expanded state.
func (s *ExpandState) Toggle(id string) bool {
	if s.IsExpanded(id) {
		s.Collapse(id)
		return false
	}
	s.Expand(id)
	return true
}

func (s *ExpandState) Collapse(id string) {
	if s.collapsed == nil {
		s.collapsed = make(map[string]bool)
	}
	s.collapsed[id] = true
}

func (s *ExpandState) Expand(id string) {
	delete(s.collapsed, id)
}

// ExpandAll clears every collapse flag.
func (s *ExpandState) ExpandAll() {
	s.collapsed = nil
}

// CollapseAll collapses every node in the forest that has children.
func (s *ExpandState) CollapseAll(f *Forest) {
	for _, n := range Flatten(f, nil, false) {
		if n.HasChildren() {
			s.Collapse(n.ID())
		}
	}
}

// CollapsedIDs returns the collapsed ids in sorted order.
func (s *ExpandState) CollapsedIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.collapsed))
	for id := range s.collapsed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Flatten walks the forest depth-first in pre-order. With respectCollapse,
// a node's children are emitted only while the node is expanded.
func Flatten(f *Forest, expand *ExpandState, respectCollapse bool) []*Node {
	if f == nil {
		return nil
	}
	out := make([]*Node, 0, f.Len())
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, n)
			if respectCollapse && !expand.IsExpanded(n.ID()) {
				continue
			}
			walk(n.Children)
		}
	}
	walk(f.Roots)
	return out
}
