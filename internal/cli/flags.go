package cli

import (
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/schedule"
	"github.com/alexanderramin/gantt/internal/timeline"
	"github.com/spf13/pflag"
)

// dateValue is a YYYY-MM-DD flag. A nil target means the flag was not given.
type dateValue struct {
	target **time.Time
}

var _ pflag.Value = dateValue{}

func newDateValue(target **time.Time) dateValue { return dateValue{target: target} }

func (v dateValue) String() string {
	if v.target == nil || *v.target == nil {
		return ""
	}
	return (*v.target).Format(calendar.DateLayout)
}

func (v dateValue) Set(s string) error {
	d, err := calendar.ParseDate(s)
	if err != nil {
		return err
	}
	*v.target = &d
	return nil
}

func (dateValue) Type() string { return "date" }

type zoomValue struct {
	target *timeline.Zoom
}

func (v zoomValue) String() string { return string(*v.target) }

func (v zoomValue) Set(s string) error {
	z, err := timeline.ParseZoom(s)
	if err != nil {
		return err
	}
	*v.target = z
	return nil
}

func (zoomValue) Type() string { return "day|week|month" }

type modeValue struct {
	target *domain.ScheduleMode
}

func (v modeValue) String() string { return string(*v.target) }

func (v modeValue) Set(s string) error {
	m, err := schedule.ParseMode(s)
	if err != nil {
		return err
	}
	*v.target = m
	return nil
}

func (modeValue) Type() string { return "general|detailed" }

type maskValue struct {
	target *calendar.Mask
	set    *bool
}

func (v maskValue) String() string {
	if v.set == nil || !*v.set {
		return ""
	}
	return v.target.String()
}

func (v maskValue) Set(s string) error {
	m, err := calendar.ParseMask(s)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	*v.target = m
	*v.set = true
	return nil
}

func (maskValue) Type() string { return "days" }

func dateFlag(fs *pflag.FlagSet, target **time.Time, name, usage string) {
	fs.Var(newDateValue(target), name, usage)
}

func zoomFlag(fs *pflag.FlagSet, target *timeline.Zoom) {
	fs.Var(zoomValue{target: target}, "zoom", "Timeline zoom: day, week or month")
}

func modeFlag(fs *pflag.FlagSet, target *domain.ScheduleMode) {
	fs.Var(modeValue{target: target}, "mode", "Schedule mode: general or detailed")
}

// maskFlag accepts "1111100" or "mon-fri" style working-day sets.
func maskFlag(fs *pflag.FlagSet, target *calendar.Mask, set *bool) {
	fs.Var(maskValue{target: target, set: set}, "working-days", `Working days, e.g. "mon-fri" or "1111110"`)
}
