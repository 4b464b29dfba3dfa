package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/isoweek"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Pct formats a 0..1 rate as a whole percentage.
func Pct(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// WeekLabel renders a YYYYWW key as 2026-W42, or the raw number when the
// key is malformed.
func WeekLabel(key int) string {
	yw, err := isoweek.FromKey(key)
	if err != nil {
		return fmt.Sprintf("%d", key)
	}
	return yw.String()
}

func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// PhasePill returns a colored indicator for an account phase.
func PhasePill(p domain.AccountPhase) string {
	switch p {
	case domain.PhaseTrial:
		return StyleBlue.Render("● Trial")
	case domain.PhaseActive:
		return StyleGreen.Render("● Active")
	case domain.PhasePaused:
		return StyleYellow.Render("○ Paused")
	case domain.PhaseTerminated:
		return StyleDim.Render("✖ Terminated")
	case domain.PhaseOnboarding:
		return StylePurple.Render("◌ Onboarding")
	default:
		return StyleDim.Render(string(p))
	}
}
