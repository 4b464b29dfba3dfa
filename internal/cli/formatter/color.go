package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mirror/internal/domain"
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
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

func TierColor(tier domain.Tier) lipgloss.Style {
	switch tier {
	case domain.TierOnTrack:
		return StyleGreen
	case domain.TierAtRisk:
		return StyleYellow
	case domain.TierNeedsReset:
		return StyleRed
	default:
		return StyleDim
	}
}

// TierIndicator returns a colored label such as "● AT RISK".
func TierIndicator(tier domain.Tier) string {
	switch tier {
	case domain.TierOnTrack:
		return StyleGreen.Render("● ON TRACK")
	case domain.TierAtRisk:
		return StyleYellow.Render("● AT RISK")
	case domain.TierNeedsReset:
		return StyleRed.Render("● NEEDS RESET")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

func SeverityIndicator(s domain.Severity) string {
	switch {
	case s >= domain.SeverityTermination:
		return StyleRed.Render("▲ TERMINATION")
	case s == domain.SeverityRenegotiation:
		return StyleYellow.Render("◆ RENEGOTIATE")
	case s == domain.SeverityWarning:
		return StyleBlue.Render("● WARNING")
	default:
		return StyleDim.Render("○ NONE")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
