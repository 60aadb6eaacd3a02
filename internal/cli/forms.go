package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func ganttHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectFields backs the interactive "project add" form.
type projectFields struct {
	ShortID  string
	Name     string
	Start    string
	Deadline string
}

func projectForm(f *projectFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Short ID").
				Description("3-6 letters and 2-4 digits, e.g. BLD01").
				Value(&f.ShortID).
				Validate(requiredText("short ID")),
			huh.NewInput().
				Title("Name").
				Value(&f.Name).
				Validate(requiredText("name")),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Placeholder(f.Start).
				Value(&f.Start).
				Validate(validateDate),
			huh.NewInput().
				Title("Deadline (YYYY-MM-DD, blank for none)").
				Value(&f.Deadline).
				Validate(validateOptionalDate),
		),
	).WithTheme(ganttHuhTheme()).WithShowHelp(false)
}

// calendarForm edits a working-day set as a multi-select of day names.
func calendarForm(days *[]string) *huh.Form {
	options := make([]huh.Option[string], 0, 7)
	for _, name := range calendar.DayNames() {
		options = append(options, huh.NewOption(strings.ToUpper(name[:1])+name[1:], name))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Working days").
				Options(options...).
				Value(days).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return calendar.ErrNoWorkingDays
					}
					return nil
				}),
		),
	).WithTheme(ganttHuhTheme()).WithShowHelp(false)
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(ganttHuhTheme()).WithShowHelp(false)
}

func requiredText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateDate(s string) error {
	if _, err := calendar.ParseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	return validateDate(s)
}
