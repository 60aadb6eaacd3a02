package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45%. Colour follows the
// percentage: green above 66, yellow from 33, red below.
func RenderProgress(pct, width int) string {
	return fmt.Sprintf("[%s] %3d%%", RenderCompactBar(pct, width), clampPct(pct))
}

// RenderCompactBar is RenderProgress without brackets or the number.
func RenderCompactBar(pct, width int) string {
	pct = clampPct(pct)
	width = max(width, 2)
	filled := pct * width / 100

	style := StyleGreen
	switch {
	case pct < 33:
		style = StyleRed
	case pct < 66:
		style = StyleYellow
	}
	return style.Render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

func clampPct(pct int) int {
	return min(max(pct, 0), 100)
}
