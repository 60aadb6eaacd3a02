package schedule

import (
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

// rollupFrom sets a summary's span to [min child start, max child end].
// The end is a max, not the last child's end: a later-sorted child can
// still finish earlier. Duration is the elapsed calendar span.
// It reports whether the summary's dates changed.
func rollupFrom(parent *domain.Task, children []*domain.Task) bool {
	var start, end time.Time
	for _, c := range children {
		if !c.HasDates() {
			continue
		}
		if start.IsZero() || c.StartDate.Before(start) {
			start = c.StartDate
		}
		if c.EndDate.After(end) {
			end = c.EndDate
		}
	}
	if start.IsZero() {
		return false
	}

	oldStart, oldEnd, oldDur := parent.StartDate, parent.EndDate, parent.DurationDays
	parent.SetSpan(start, end)
	return !oldStart.Equal(parent.StartDate) || !oldEnd.Equal(parent.EndDate) || oldDur != parent.DurationDays
}

// Rollup recomputes every summary task (a non-milestone task with children)
// from its current children, deepest first, and returns the tasks whose
// dates changed. Parent cycles are visited once and do not recurse.
func Rollup(tasks []*domain.Task) []*domain.Task {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	children := make(map[string][]*domain.Task)
	for _, t := range tasks {
		if t.IsRoot() {
			continue
		}
		if _, ok := byID[*t.ParentID]; ok {
			children[*t.ParentID] = append(children[*t.ParentID], t)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(tasks))
	var changed []*domain.Task

	var visit func(t *domain.Task)
	visit = func(t *domain.Task) {
		switch state[t.ID] {
		case visiting, done:
			return
		}
		state[t.ID] = visiting
		kids := children[t.ID]
		for _, c := range kids {
			visit(c)
		}
		if len(kids) > 0 && !t.IsMilestone && rollupFrom(t, kids) {
			changed = append(changed, t)
		}
		state[t.ID] = done
	}
	for _, t := range tasks {
		visit(t)
	}
	return changed
}

// Ancestors returns the chain of parents of id, nearest first. It stops at a
// missing parent or when a cycle would repeat a task.
func Ancestors(tasks []*domain.Task, id string) []*domain.Task {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	var chain []*domain.Task
	seen := map[string]bool{id: true}
	cur, ok := byID[id]
	for ok && !cur.IsRoot() {
		pid := *cur.ParentID
		if seen[pid] {
			break
		}
		seen[pid] = true
		cur, ok = byID[pid]
		if ok {
			chain = append(chain, cur)
		}
	}
	return chain
}
