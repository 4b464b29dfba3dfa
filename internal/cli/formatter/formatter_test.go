package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/metrics"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestRenderProgress_Clamps(t *testing.T) {
	assert.Contains(t, RenderProgress(1.5, 10), "100%")
	assert.Contains(t, RenderProgress(-1, 10), "0%")
	assert.Equal(t, lipgloss.Width(RenderProgress(0.5, 1)), lipgloss.Width(RenderProgress(0.5, 2)), "width clamps to 2")
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{
		{StyleRed.Render("long cell"), "x"},
		{"s", "y"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(lines[3]))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "2026-W42", WeekLabel(202642))
	assert.Equal(t, "7", WeekLabel(7))
}

func TestFormatMetrics(t *testing.T) {
	out := FormatMetrics(&app.MetricsResponse{
		AsOf:     "2026-10-15",
		TrialDay: 10,
		Metrics: metrics.Metrics{
			CheckinCount: 7, CheckinTotal: 10, CheckinRate: 0.7,
			EvidenceExpected: 4,
			AverageRate:      0.45,
			CheckinStreak:    3,
		},
		Tier: domain.TierAtRisk,
	})
	assert.Contains(t, out, "DAY 10")
	assert.Contains(t, out, "7/10")
	assert.Contains(t, out, "AT RISK")
	assert.Contains(t, out, "45%")
}

func TestFormatReport(t *testing.T) {
	out := FormatReport(&app.CommitmentReport{
		MetricsResponse: app.MetricsResponse{TrialDay: 21, Tier: domain.TierOnTrack},
		TrialComplete:   true,
		SmallWins:       metrics.SmallWins{TotalCheckins: 18, LongestStreak: 9, BestWeek: 202637, BestWeekCheckins: 7},
		ViolationCounts: map[domain.ViolationType]int{domain.ViolationAbsence: 2},
		Narrative:       "You held the line.",
		NarrativeSource: "deterministic",
	})
	assert.Contains(t, out, "DAY 21 REPORT")
	assert.Contains(t, out, "You held the line.")
	assert.Contains(t, out, "2026-W37")
	assert.Contains(t, out, "absence")
}

func TestFormatReport_InProgressTitle(t *testing.T) {
	out := FormatReport(&app.CommitmentReport{MetricsResponse: app.MetricsResponse{TrialDay: 4}})
	assert.Contains(t, out, "DAY 4 OF 21 (IN PROGRESS)")
}

func TestFormatScanResult_ListsFailures(t *testing.T) {
	out := FormatScanResult(&app.ScanResult{
		UsersScanned: 3,
		UsersFailed:  1,
		Failures:     []app.UserFailure{{UserID: "0123456789abcdef", Error: "database is locked"}},
	})
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "89abcdef")
	assert.Contains(t, out, "database is locked")
}

func TestFormatStatus_PendingTermination(t *testing.T) {
	res := domain.ResolutionDismissed
	out := FormatStatus(&app.ViolationStatus{
		Week:             "2026-W42",
		CurrentSeverity:  domain.SeverityTermination,
		ConsecutiveWeeks: 3,
		OpenViolations: []app.ViolationView{
			{ID: "v1", Type: domain.ViolationAbsence, Severity: domain.SeverityTermination, WeekNumber: 202642},
			{ID: "v2", Type: domain.ViolationCommitmentMiss, Severity: domain.SeverityWarning, WeekNumber: 202640, Resolution: &res},
		},
		PendingTermination: &app.TerminationView{
			Reason:          "3 consecutive weeks with violations",
			EvidenceSummary: domain.EvidenceSummary{CheckinDays: 12},
			CreatedAt:       time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC),
		},
	})
	assert.Contains(t, out, "TERMINATION")
	assert.Contains(t, out, "DECISION REQUIRED")
	assert.Contains(t, out, "12 check-in days")
	assert.Contains(t, out, "dismissed")
}

func TestFormatViolations_Empty(t *testing.T) {
	assert.Contains(t, FormatViolations(nil), "No violations.")
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "thinking")
	s.Stop()

	s = NewSpinner(&buf, "thinking")
	s.Start()
	s.Stop()
	s.Stop()
	assert.Contains(t, buf.String(), "\r\033[K")
}
