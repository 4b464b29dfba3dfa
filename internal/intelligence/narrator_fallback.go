package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/isoweek"
)

// DeterministicNarrative builds the report text straight from the facts.
func DeterministicNarrative(f ReportFacts) Narrative {
	m, w := f.Metrics, f.SmallWins
	n := Narrative{Source: SourceDeterministic}

	switch f.Tier {
	case domain.TierOnTrack:
		n.Headline = fmt.Sprintf("Day %d: the process is holding.", f.TrialDay)
	case domain.TierAtRisk:
		n.Headline = fmt.Sprintf("Day %d: the process is wobbling, not broken.", f.TrialDay)
	default:
		n.Headline = fmt.Sprintf("Day %d: the process needs a reset.", f.TrialDay)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("You checked in on %d of %d days (%s).",
		m.CheckinCount, m.CheckinTotal, pct(m.CheckinRate)))
	n.CitedFacts = append(n.CitedFacts, "trial_day", "tier", "checkin_rate")

	if w.LongestStreak > 1 {
		parts = append(parts, fmt.Sprintf("Your longest run was %d days in a row.", w.LongestStreak))
		n.CitedFacts = append(n.CitedFacts, "longest_streak")
	}
	if w.BestWeek != 0 {
		if yw, err := isoweek.FromKey(w.BestWeek); err == nil {
			parts = append(parts, fmt.Sprintf("Your strongest week was %s with %d check-in days.", yw, w.BestWeekCheckins))
			n.CitedFacts = append(n.CitedFacts, "best_week")
		}
	}
	if m.IfThenCount > 0 {
		parts = append(parts, fmt.Sprintf("If-then plans fired on %d days.", m.IfThenCount))
		n.CitedFacts = append(n.CitedFacts, "if_then_rate")
	}
	if m.CommitmentTotal > 0 {
		parts = append(parts, fmt.Sprintf("%d of %d commitments were kept.", m.CommitmentCompleted, m.CommitmentTotal))
		n.CitedFacts = append(n.CitedFacts, "commitment_rate")
	}
	parts = append(parts, fmt.Sprintf("Evidence came in %d of %d expected times.", m.EvidenceCount, m.EvidenceExpected))
	n.CitedFacts = append(n.CitedFacts, "evidence_rate")

	total := 0
	for _, c := range f.ViolationCounts {
		total += c
	}
	if total > 0 {
		parts = append(parts, fmt.Sprintf("%d process violation(s) were logged along the way.", total))
	}

	n.Body = strings.Join(parts, " ")
	return n
}

// DeterministicNudge is the fallback line shown with a violation warning.
func DeterministicNudge(severity domain.Severity, types []domain.ViolationType) string {
	has := func(t domain.ViolationType) bool {
		for _, v := range types {
			if v == t {
				return true
			}
		}
		return false
	}
	switch {
	case severity >= domain.SeverityTermination:
		return "Three weeks in a row is a signal to step back and choose how to continue."
	case has(domain.ViolationAbsence):
		return "A one-line check-in counts. Try one today, however small."
	case has(domain.ViolationCommitmentMiss):
		return "Consider fewer, smaller commitments for the rest of this week."
	default:
		return "Take a moment to look at what got in the way this week."
	}
}

func pct(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}
