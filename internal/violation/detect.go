// Package violation holds the weekly violation rules: detection primitives,
// consecutive-week counting and severity escalation. Storage is handled by
// the service layer; everything here is pure.
package violation

import (
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/isoweek"
)

const (
	// AbsenceWindowDays is how many trailing calendar days, today included,
	// must all lack a check-in before an absence is flagged.
	AbsenceWindowDays = 3
	// CommitmentMissRatio is the completion ratio below which a week's
	// commitments count as missed.
	CommitmentMissRatio = 0.5
)

// DetectAbsence reports whether the user has no check-in in the last
// AbsenceWindowDays days. Trials younger than the window are never absent.
func DetectAbsence(checkins []domain.Checkin, trialStart, today domain.Day) bool {
	if today.DaysSince(trialStart)+1 < AbsenceWindowDays {
		return false
	}
	from := today.AddDays(-(AbsenceWindowDays - 1))
	for _, c := range checkins {
		if !c.Date.Before(from) && !c.Date.After(today) {
			return false
		}
	}
	return true
}

// WeekWindow returns the Monday-start ISO week containing today as [start, end).
func WeekWindow(today domain.Day) (start, end domain.Day) {
	start = domain.DayOf(isoweek.Of(today.Time()).Monday())
	return start, start.AddDays(7)
}

// CommitmentTally counts this week's commitments that have come due by today.
// Commitments due later in the week are not yet obligations.
func CommitmentTally(commitments []domain.Commitment, today domain.Day) (completed, total int) {
	start, _ := WeekWindow(today)
	for _, c := range commitments {
		if c.InvalidatedAt != nil || c.DueDate.Before(start) || c.DueDate.After(today) {
			continue
		}
		total++
		if c.Status == domain.CommitmentCompleted {
			completed++
		}
	}
	return completed, total
}

// DetectCommitmentMiss reports whether fewer than half of the due
// commitments were completed. No commitments due is never a miss.
func DetectCommitmentMiss(completed, total int) bool {
	if total <= 0 {
		return false
	}
	return float64(completed)/float64(total) < CommitmentMissRatio
}
