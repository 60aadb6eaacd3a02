package contract

import (
	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/timeline"
)

// GanttRow is one visible row with its bar geometry in pixels.
type GanttRow struct {
	Task          Task         `json:"task"`
	WBS           string       `json:"wbs"`
	Level         int          `json:"level"`
	Kind          string       `json:"kind"`
	HasChildren   bool         `json:"has_children"`
	Expanded      bool         `json:"expanded"`
	Bar           timeline.Bar `json:"bar"`
	ProgressWidth int          `json:"progress_width"`
}

type GanttLink struct {
	FromID  string `json:"from_id"`
	ToID    string `json:"to_id"`
	FromRow int    `json:"from_row"`
	ToRow   int    `json:"to_row"`
	FromX   int    `json:"from_x"`
	ToX     int    `json:"to_x"`
}

// Gantt is the render-ready chart for one project view.
type Gantt struct {
	Project    Project               `json:"project"`
	Zoom       string                `json:"zoom"`
	RangeStart string                `json:"range_start"`
	RangeEnd   string                `json:"range_end"`
	DayWidth   int                   `json:"day_width"`
	TotalWidth int                   `json:"total_width"`
	TodayX     *int                  `json:"today_x,omitempty"`
	Weeks      []timeline.WeekHeader `json:"weeks"`
	Days       []timeline.DayHeader  `json:"days"`
	Rows       []GanttRow            `json:"rows"`
	Links      []GanttLink           `json:"links"`
	TaskCount  int                   `json:"task_count"`
	Warnings   []Warning             `json:"warnings"`
}

func GanttFrom(resp *app.GanttResponse) Gantt {
	c := resp.Chart
	out := Gantt{
		Project:    ProjectFrom(resp.Project),
		Zoom:       string(c.Zoom),
		RangeStart: date(c.Range.Start),
		RangeEnd:   date(c.Range.End),
		DayWidth:   c.DayWidth,
		TotalWidth: c.TotalWidth,
		TodayX:     c.TodayX,
		Weeks:      c.Weeks,
		Days:       c.Days,
		Rows:       make([]GanttRow, 0, len(c.Rows)),
		Links:      make([]GanttLink, 0, len(c.Links)),
		TaskCount:  resp.TaskCount,
		Warnings:   WarningsFrom(resp.Warnings),
	}
	for _, r := range c.Rows {
		out.Rows = append(out.Rows, GanttRow{
			Task:          TaskFrom(r.Node.Task),
			WBS:           r.Node.WBS,
			Level:         r.Node.Level,
			Kind:          string(r.Node.Kind),
			HasChildren:   r.Node.HasChildren(),
			Expanded:      r.Expanded,
			Bar:           r.Bar,
			ProgressWidth: r.ProgressWidth,
		})
	}
	for _, l := range c.Links {
		out.Links = append(out.Links, GanttLink(l))
	}
	return out
}
