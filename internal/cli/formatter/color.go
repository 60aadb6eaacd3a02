package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// TaskStyle colors text with the task's own color, falling back to the
// palette entry for its kind.
func TaskStyle(t *domain.Task, kind tree.Kind) lipgloss.Style {
	if t.Color != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color))
	}
	switch kind {
	case tree.KindSummary:
		return StyleBlue
	case tree.KindMilestone:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// KindBadge returns a one-rune glyph for the node kind. Summaries show
// whether they are expanded.
func KindBadge(kind tree.Kind, expanded bool) string {
	switch kind {
	case tree.KindSummary:
		if expanded {
			return "▾"
		}
		return "▸"
	case tree.KindMilestone:
		return "◆"
	default:
		return "•"
	}
}

// SourceBadge labels where a task came from.
func SourceBadge(s domain.TaskSource) string {
	switch s {
	case domain.SourceEstimate:
		return StyleBlue.Render("estimate")
	case domain.SourceCostEstimate:
		return StylePurple.Render("cost")
	case domain.SourceOffer:
		return StyleYellow.Render("offer")
	default:
		return StyleDim.Render("manual")
	}
}

// FormatWarnings renders one line per warning, or "" when there are none.
func FormatWarnings(ws []app.Warning) string {
	if len(ws) == 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range ws {
		b.WriteString(StyleYellow.Render("! "+string(w.Code)) + " " + w.Message + "\n")
	}
	return b.String()
}
