package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mirror/internal/metrics"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a rate as a bar like [████░░░░]  45%. Colors follow
// the tier thresholds.
func RenderProgress(rate float64, width int) string {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(rate * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case rate < metrics.AtRiskThreshold:
		style = StyleRed
	case rate < metrics.OnTrackThreshold:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %4s", style.Render(bar), Pct(rate))
}
