package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return box.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return box.Render(content)
}

// FormatDate renders a calendar date as "Mon Jun 2" within the current
// year and "Jun 2 2026" otherwise; zero dates render as "--".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	if t.Year() == time.Now().Year() {
		return t.Format("Mon Jan 2")
	}
	return t.Format("Jan 2 2006")
}

// ISODate renders YYYY-MM-DD, or "--" for a zero date.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format(calendar.DateLayout)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// WorkingDays renders a mask as seven day initials, working days bright.
func WorkingDays(m calendar.Mask) string {
	parts := make([]string, 0, 7)
	for i, name := range calendar.DayNames() {
		label := strings.ToUpper(name[:1]) + name[1:2]
		if m[i] {
			parts = append(parts, StyleGreen.Render(label))
		} else {
			parts = append(parts, StyleDim.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
