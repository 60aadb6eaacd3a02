// Package schedule turns ordered stage/item duration data into a dated,
// rollup-consistent task list.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/google/uuid"
)

// ErrInvalidInput marks builder input that cannot be scheduled.
var ErrInvalidInput = errors.New("invalid schedule input")

// Provenance colours. They only signal where a bar came from.
const (
	ColorStage  = "#83a598"
	ColorItem   = "#8ec07c"
	ColorOrphan = "#fabd2f"
	ColorManual = "#d3869b"
)

const (
	// GeneralFloorDays is the minimum placeholder length of a general-mode stage.
	GeneralFloorDays = 5
	// GeneralDaysPerItem is the per-item estimate of a general-mode stage.
	GeneralDaysPerItem = 2
)

// Mode selects how stages map onto tasks.
type Mode = domain.ScheduleMode

const (
	ModeGeneral  = domain.ModeGeneral
	ModeDetailed = domain.ModeDetailed
)

// ParseMode accepts "general" or "detailed" (case-insensitive). Empty means general.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeGeneral):
		return ModeGeneral, nil
	case string(ModeDetailed):
		return ModeDetailed, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q (want general or detailed)", ErrInvalidInput, s)
	}
}

// Stage is one ordered block of work.
type Stage struct {
	ID        string
	Name      string
	SortOrder int
}

// Item is one priced or estimated line inside a stage. An empty StageID, or
// one that matches no stage, makes the item an orphan.
type Item struct {
	ID           string
	StageID      string
	Name         string
	DurationDays int
	SortOrder    int
}

// Input is everything the builder needs for one regeneration pass.
type Input struct {
	ProjectID string
	StartDate time.Time
	Calendar  *calendar.Calendar
	Stages    []Stage
	Items     []Item
	Mode      Mode
	Source    domain.TaskSource

	// NewID overrides task id generation; nil uses random UUIDs.
	NewID func() string
}

type WarningCode string

const WarningOrphanItem WarningCode = "ORPHAN_ITEM"

// Warning is a recovered integrity problem in the input.
type Warning struct {
	Code    WarningCode
	ItemID  string
	Message string
}

// Block summarises the span produced for one stage, or for the orphan tail
// (empty StageID).
type Block struct {
	StageID   string
	Name      string
	Start     time.Time
	End       time.Time
	TaskCount int
}

// Result is the fully dated task set, parents before children.
type Result struct {
	Tasks    []*domain.Task
	Warnings []Warning
	Blocks   []Block
}

// Span returns the earliest start and latest end over all tasks.
func (r *Result) Span() (start, end time.Time) {
	for _, t := range r.Tasks {
		if start.IsZero() || t.StartDate.Before(start) {
			start = t.StartDate
		}
		if t.EndDate.After(end) {
			end = t.EndDate
		}
	}
	return start, end
}

type builder struct {
	in       Input
	cal      *calendar.Calendar
	newID    func() string
	now      time.Time
	result   *Result
	rootSort int
}

// Build generates the schedule. Stages run strictly one after another, and
// orphan items follow the last stage block. On error no tasks are returned.
func Build(in Input) (*Result, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	mode, err := ParseMode(string(in.Mode))
	if err != nil {
		return nil, err
	}

	b := &builder{
		in:     in,
		cal:    in.Calendar,
		newID:  in.NewID,
		now:    time.Now().UTC(),
		result: &Result{},
	}
	if b.newID == nil {
		b.newID = func() string { return uuid.New().String() }
	}

	stages, grouped, orphans := partition(in.Stages, in.Items)
	cursor := calendar.DateOf(in.StartDate)
	for _, st := range stages {
		items := grouped[st.ID]
		switch mode {
		case ModeDetailed:
			if len(items) == 0 {
				continue
			}
			cursor = b.detailedStage(st, items, cursor)
		default:
			cursor = b.generalStage(st, len(items), cursor)
		}
	}
	b.orphans(orphans, cursor)

	if err := checkOutput(b.result.Tasks); err != nil {
		return nil, err
	}
	return b.result, nil
}

func validateInput(in Input) error {
	if in.Calendar == nil {
		return fmt.Errorf("%w: a working-day calendar is required", ErrInvalidInput)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Stages))
	for _, st := range in.Stages {
		if st.ID == "" {
			return fmt.Errorf("%w: stage %q has no id", ErrInvalidInput, st.Name)
		}
		if seen[st.ID] {
			return fmt.Errorf("%w: duplicate stage id %q", ErrInvalidInput, st.ID)
		}
		seen[st.ID] = true
	}
	for _, it := range in.Items {
		if it.DurationDays < 0 {
			return fmt.Errorf("%w: item %q has negative duration %d", ErrInvalidInput, it.Name, it.DurationDays)
		}
	}
	return nil
}

// partition orders stages and items by SortOrder and splits off orphans.
func partition(stages []Stage, items []Item) ([]Stage, map[string][]Item, []Item) {
	sortedStages := make([]Stage, len(stages))
	copy(sortedStages, stages)
	sort.SliceStable(sortedStages, func(i, j int) bool {
		return sortedStages[i].SortOrder < sortedStages[j].SortOrder
	})

	sortedItems := make([]Item, len(items))
	copy(sortedItems, items)
	sort.SliceStable(sortedItems, func(i, j int) bool {
		return sortedItems[i].SortOrder < sortedItems[j].SortOrder
	})

	known := make(map[string]bool, len(stages))
	for _, st := range stages {
		known[st.ID] = true
	}
	grouped := make(map[string][]Item)
	var orphans []Item
	for _, it := range sortedItems {
		if it.StageID == "" || !known[it.StageID] {
			orphans = append(orphans, it)
			continue
		}
		grouped[it.StageID] = append(grouped[it.StageID], it)
	}
	return sortedStages, grouped, orphans
}

func (b *builder) generalStage(st Stage, itemCount int, cursor time.Time) time.Time {
	est := max(itemCount*GeneralDaysPerItem, GeneralFloorDays)
	start := b.cal.NextWorkingDay(cursor)
	end := b.cal.AddWorkingDays(start, est)

	t := b.newTask(st.Name, nil, b.nextRootSort(), ColorStage)
	b.setLeafSpan(t, start, end)
	b.result.Tasks = append(b.result.Tasks, t)
	b.result.Blocks = append(b.result.Blocks, Block{
		StageID: st.ID, Name: st.Name, Start: start, End: end, TaskCount: 1,
	})
	return calendar.AddDays(end, 1)
}

func (b *builder) detailedStage(st Stage, items []Item, cursor time.Time) time.Time {
	parent := b.newTask(st.Name, nil, b.nextRootSort(), ColorStage)
	// Provisional zero-length span until the children are placed.
	start := b.cal.NextWorkingDay(cursor)
	parent.StartDate, parent.EndDate, parent.DurationDays = start, start, 0
	b.result.Tasks = append(b.result.Tasks, parent)

	children := make([]*domain.Task, 0, len(items))
	childCursor := cursor
	for i, it := range items {
		itemStart := b.cal.NextWorkingDay(childCursor)
		itemEnd := b.cal.AddWorkingDays(itemStart, max(it.DurationDays, 1))

		child := b.newTask(it.Name, &parent.ID, i, ColorItem)
		b.setLeafSpan(child, itemStart, itemEnd)
		children = append(children, child)
		childCursor = calendar.AddDays(itemEnd, 1)
	}
	b.result.Tasks = append(b.result.Tasks, children...)

	rollupFrom(parent, children)
	b.result.Blocks = append(b.result.Blocks, Block{
		StageID: st.ID, Name: st.Name, Start: parent.StartDate, End: parent.EndDate,
		TaskCount: len(children) + 1,
	})
	return calendar.AddDays(parent.EndDate, 1)
}

func (b *builder) orphans(items []Item, cursor time.Time) {
	if len(items) == 0 {
		return
	}
	block := Block{Name: "Unassigned items"}
	for _, it := range items {
		start := b.cal.NextWorkingDay(cursor)
		end := b.cal.AddWorkingDays(start, max(it.DurationDays, 1))

		t := b.newTask(it.Name, nil, b.nextRootSort(), ColorOrphan)
		b.setLeafSpan(t, start, end)
		b.result.Tasks = append(b.result.Tasks, t)
		b.result.Warnings = append(b.result.Warnings, Warning{
			Code:   WarningOrphanItem,
			ItemID: it.ID,
			Message: fmt.Sprintf("item %q references unknown stage %q; scheduled after all stages",
				it.Name, it.StageID),
		})

		if block.Start.IsZero() {
			block.Start = start
		}
		block.End = end
		block.TaskCount++
		cursor = calendar.AddDays(end, 1)
	}
	b.result.Blocks = append(b.result.Blocks, block)
}

func (b *builder) newTask(title string, parentID *string, sortOrder int, color string) *domain.Task {
	t := &domain.Task{
		ID:        b.newID(),
		ProjectID: b.in.ProjectID,
		Title:     title,
		SortOrder: sortOrder,
		Color:     color,
		Source:    b.source(),
		CreatedAt: b.now,
		UpdatedAt: b.now,
	}
	if parentID != nil {
		id := *parentID
		t.ParentID = &id
	}
	return t
}

func (b *builder) source() domain.TaskSource {
	if b.in.Source == "" {
		return domain.SourceEstimate
	}
	return b.in.Source
}

func (b *builder) nextRootSort() int {
	n := b.rootSort
	b.rootSort++
	return n
}

func (b *builder) setLeafSpan(t *domain.Task, start, end time.Time) {
	SetLeafSpan(b.cal, t, start, end)
}

// SetLeafSpan dates a leaf task; its duration is the working-day effort in
// the span. Milestones keep a single date and zero duration.
func SetLeafSpan(cal *calendar.Calendar, t *domain.Task, start, end time.Time) {
	t.SetSpan(start, end)
	if t.IsMilestone {
		return
	}
	t.DurationDays = cal.WorkingDaysBetween(t.StartDate, t.EndDate)
}

func checkOutput(tasks []*domain.Task) error {
	for _, t := range tasks {
		if t.EndDate.Before(t.StartDate) {
			return fmt.Errorf("generated task %q ends before it starts", t.Title)
		}
		if !t.IsMilestone && t.DurationDays < 1 {
			return fmt.Errorf("generated task %q has zero duration", t.Title)
		}
	}
	return nil
}
