package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mirror/internal/app"
)

func FormatScanResult(r *app.ScanResult) string {
	var b strings.Builder
	b.WriteString(Header("Weekly scan"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  users scanned      %s\n", Bold(fmt.Sprint(r.UsersScanned)))
	fmt.Fprintf(&b, "  violations logged  %s\n", Bold(fmt.Sprint(r.ViolationsDetected)))

	alerts := fmt.Sprint(r.TerminationAlerts)
	if r.TerminationAlerts > 0 {
		alerts = StyleRed.Render(alerts)
	}
	fmt.Fprintf(&b, "  termination alerts %s\n", alerts)

	if r.UsersFailed > 0 {
		fmt.Fprintf(&b, "  failed             %s\n", StyleRed.Render(fmt.Sprint(r.UsersFailed)))
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "    %s %s\n", TruncID(f.UserID), StyleRed.Render(f.Error))
		}
	}
	return b.String()
}

func FormatViolations(views []app.ViolationView) string {
	if len(views) == 0 {
		return Dim("No violations.") + "\n"
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		state := StyleYellow.Render("open")
		if v.Resolution != nil {
			state = Dim(string(*v.Resolution))
		}
		rows = append(rows, []string{
			TruncID(v.ID),
			WeekLabel(v.WeekNumber),
			string(v.Type),
			SeverityIndicator(v.Severity),
			state,
		})
	}
	return RenderTable([]string{"ID", "WEEK", "TYPE", "SEVERITY", "STATE"}, rows)
}

// FormatStatus renders the escalation state a client routes on.
func FormatStatus(s *app.ViolationStatus) string {
	var b strings.Builder
	b.WriteString(Header("Violations " + s.Week))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %d consecutive week(s)\n\n", SeverityIndicator(s.CurrentSeverity), s.ConsecutiveWeeks)

	if len(s.OpenViolations) > 0 {
		b.WriteString(FormatViolations(s.OpenViolations))
	} else {
		b.WriteString(Dim("Nothing open.") + "\n")
	}

	if t := s.PendingTermination; t != nil {
		b.WriteString("\n")
		b.WriteString(RenderBox("Decision required", FormatTermination(t)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTermination renders the evidence a user sees before choosing.
func FormatTermination(t *app.TerminationView) string {
	e := t.EvidenceSummary
	return fmt.Sprintf("%s\n\n%d check-in days, %d if-then days, %d evidence items\n%s",
		StyleRed.Render(t.Reason), e.CheckinDays, e.IfThenCount, e.EvidenceCount,
		Dim("raised "+Timestamp(t.CreatedAt)))
}

func FormatTerminationResult(r *app.TerminationChoiceResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recorded %s. Account is now %s.\n", Bold(string(r.Choice)), PhasePill(r.Phase))
	if r.VowInvalidated || r.InvalidatedCommitments > 0 {
		fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("vow retired: %t, commitments cleared: %d", r.VowInvalidated, r.InvalidatedCommitments)))
	}
	return b.String()
}
