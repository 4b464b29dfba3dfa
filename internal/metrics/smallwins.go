package metrics

import (
	"github.com/alexanderramin/mirror/internal/isoweek"
)

// SmallWins are the positive facts surfaced in the Day-21 report regardless
// of tier.
type SmallWins struct {
	TotalCheckins        int `json:"total_checkins"`
	LongestStreak        int `json:"longest_streak"`
	CurrentStreak        int `json:"current_streak"`
	IfThenCount          int `json:"if_then_count"`
	CompletedCommitments int `json:"completed_commitments"`
	EvidenceCount        int `json:"evidence_count"`
	BestWeek             int `json:"best_week"` // YYYYWW of the week with most check-in days, 0 if none
	BestWeekCheckins     int `json:"best_week_checkins"`
}

// ComputeSmallWins derives the small-wins summary from the same window as Compute.
func ComputeSmallWins(in Input, m Metrics) SmallWins {
	days := CheckinDays(in.Checkins, in.TrialStart, in.Today)
	w := SmallWins{
		TotalCheckins:        m.CheckinCount,
		LongestStreak:        LongestStreak(days, in.TrialStart, in.Today),
		CurrentStreak:        m.CheckinStreak,
		IfThenCount:          m.IfThenCount,
		CompletedCommitments: m.CommitmentCompleted,
		EvidenceCount:        m.EvidenceCount,
	}

	perWeek := make(map[int]int)
	for d := range days {
		perWeek[isoweek.Of(d.Time()).Key()]++
	}
	for key, n := range perWeek {
		// Earliest week wins ties so the result does not depend on map order.
		if n > w.BestWeekCheckins || (n == w.BestWeekCheckins && key < w.BestWeek) {
			w.BestWeek = key
			w.BestWeekCheckins = n
		}
	}
	return w
}
