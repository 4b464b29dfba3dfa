// Package metrics computes process-adherence metrics and tiers. Everything
// here is a pure function of its input; "today" is always passed in.
package metrics

import (
	"math"

	"github.com/alexanderramin/mirror/internal/domain"
)

const (
	// OnTrackThreshold is the lowest average rate that counts as on track.
	OnTrackThreshold = 0.70
	// AtRiskThreshold is the lowest average rate that counts as at risk.
	AtRiskThreshold = 0.40
	// EvidenceIntervalDays is the expected cadence of evidence submissions.
	EvidenceIntervalDays = 3
	// TrialLengthDays is the length of the trial that ends in the Day-21 report.
	TrialLengthDays = 21
)

// Input is the activity window for one user: every record from TrialStart
// through Today, inclusive. Records outside the window are ignored.
type Input struct {
	TrialStart  domain.Day
	Today       domain.Day
	Checkins    []domain.Checkin
	Commitments []domain.Commitment
	Evidence    []domain.Evidence
}

type Metrics struct {
	CheckinCount int     `json:"checkin_count"`
	CheckinTotal int     `json:"checkin_total"`
	CheckinRate  float64 `json:"checkin_rate"`

	IfThenCount int     `json:"if_then_count"`
	IfThenRate  float64 `json:"if_then_rate"`

	EvidenceCount    int     `json:"evidence_count"`
	EvidenceExpected int     `json:"evidence_expected"`
	EvidenceRate     float64 `json:"evidence_rate"`

	CommitmentCompleted int     `json:"commitment_completed"`
	CommitmentTotal     int     `json:"commitment_total"`
	CommitmentRate      float64 `json:"commitment_rate"`

	CheckinStreak int     `json:"checkin_streak"`
	AverageRate   float64 `json:"average_rate"`
}

// Rate returns count/total clamped to [0,1]. A zero or negative total is 0.
func Rate(count, total int) float64 {
	if total <= 0 || count <= 0 {
		return 0
	}
	r := float64(count) / float64(total)
	if r > 1 {
		return 1
	}
	return r
}

// ElapsedDays returns the trial day number of today, never less than 1.
func ElapsedDays(trialStart, today domain.Day) int {
	n := today.DaysSince(trialStart) + 1
	if n < 1 {
		return 1
	}
	return n
}

// ExpectedEvidence returns how many evidence submissions are due after
// elapsed days: one per EvidenceIntervalDays, rounded up, at least one.
func ExpectedEvidence(elapsed int) int {
	n := int(math.Ceil(float64(elapsed) / EvidenceIntervalDays))
	if n < 1 {
		return 1
	}
	return n
}

// Compute derives Metrics from an activity window.
func Compute(in Input) Metrics {
	var m Metrics
	m.CheckinTotal = ElapsedDays(in.TrialStart, in.Today)

	days := CheckinDays(in.Checkins, in.TrialStart, in.Today)
	m.CheckinCount = len(days)
	m.IfThenCount = len(IfThenDays(in.Checkins, in.TrialStart, in.Today))

	for _, e := range in.Evidence {
		if inWindow(e.Date, in.TrialStart, in.Today) {
			m.EvidenceCount++
		}
	}
	m.EvidenceExpected = ExpectedEvidence(m.CheckinTotal)

	for _, c := range in.Commitments {
		if c.InvalidatedAt != nil || !inWindow(c.DueDate, in.TrialStart, in.Today) {
			continue
		}
		m.CommitmentTotal++
		if c.Status == domain.CommitmentCompleted {
			m.CommitmentCompleted++
		}
	}

	m.CheckinRate = Rate(m.CheckinCount, m.CheckinTotal)
	m.IfThenRate = Rate(m.IfThenCount, m.CheckinTotal)
	m.EvidenceRate = Rate(m.EvidenceCount, m.EvidenceExpected)
	m.CommitmentRate = Rate(m.CommitmentCompleted, m.CommitmentTotal)
	m.AverageRate = (m.CheckinRate + m.IfThenRate + m.EvidenceRate + m.CommitmentRate) / 4
	m.CheckinStreak = CurrentStreak(days, in.Today)
	return m
}

// TierFor maps an average rate onto a tier. Bounds are closed below, so a
// rate exactly on a threshold gets the better tier.
func TierFor(avg float64) domain.Tier {
	switch {
	case avg >= OnTrackThreshold:
		return domain.TierOnTrack
	case avg >= AtRiskThreshold:
		return domain.TierAtRisk
	default:
		return domain.TierNeedsReset
	}
}

// CheckinDays returns the set of days in [from, to] with at least one check-in.
func CheckinDays(checkins []domain.Checkin, from, to domain.Day) map[domain.Day]bool {
	days := make(map[domain.Day]bool, len(checkins))
	for _, c := range checkins {
		if inWindow(c.Date, from, to) {
			days[c.Date] = true
		}
	}
	return days
}

// IfThenDays returns the set of days in [from, to] on which an if-then plan fired.
func IfThenDays(checkins []domain.Checkin, from, to domain.Day) map[domain.Day]bool {
	days := make(map[domain.Day]bool)
	for _, c := range checkins {
		if c.IfThenTriggered && inWindow(c.Date, from, to) {
			days[c.Date] = true
		}
	}
	return days
}

// CurrentStreak counts consecutive days with a check-in, walking backward
// from today and stopping at the first gap. No check-in today means 0.
func CurrentStreak(days map[domain.Day]bool, today domain.Day) int {
	n := 0
	for d := today; days[d]; d = d.AddDays(-1) {
		n++
	}
	return n
}

// LongestStreak returns the longest run of consecutive check-in days in [from, to].
func LongestStreak(days map[domain.Day]bool, from, to domain.Day) int {
	best, run := 0, 0
	for d := from; !d.After(to); d = d.AddDays(1) {
		if days[d] {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 0
	}
	return best
}

func inWindow(d, from, to domain.Day) bool {
	return !d.Before(from) && !d.After(to)
}
