package violation

import (
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/isoweek"
)

// ConsecutiveWeeks counts the streak of weeks with a countable violation,
// ending at current. When detectedNow is set the current week is counted even
// if no row has been stored for it yet.
func ConsecutiveWeeks(current isoweek.YearWeek, history []domain.ViolationLog, detectedNow bool) int {
	weeks := make(map[int]bool, len(history)+1)
	for i := range history {
		if history[i].Countable() {
			weeks[history[i].WeekNumber] = true
		}
	}
	if detectedNow {
		weeks[current.Key()] = true
	}
	return isoweek.ConsecutiveFrom(current, weeks)
}

// SeverityFor maps a consecutive-week count onto a severity.
func SeverityFor(weeks int) domain.Severity {
	switch {
	case weeks <= 0:
		return domain.SeverityNone
	case weeks == 1:
		return domain.SeverityWarning
	case weeks == 2:
		return domain.SeverityRenegotiation
	default:
		return domain.SeverityTermination
	}
}

// UserInput is everything the weekly scan knows about one user.
type UserInput struct {
	Today              domain.Day
	TrialStart         domain.Day
	RecentCheckins     []domain.Checkin
	WeekCommitments    []domain.Commitment
	History            []domain.ViolationLog
	PendingTermination bool
}

// Decision is the outcome of the weekly rules for one user.
type Decision struct {
	Week              isoweek.YearWeek
	Detected          []domain.ViolationType
	Insert            []domain.ViolationType
	ConsecutiveWeeks  int
	Severity          domain.Severity
	CreateTermination bool
}

// Decide applies detection and escalation for one user. Types already logged
// for this week are not inserted again. false_report is never detected here.
func Decide(in UserInput) Decision {
	d := Decision{Week: isoweek.Of(in.Today.Time())}

	if DetectAbsence(in.RecentCheckins, in.TrialStart, in.Today) {
		d.Detected = append(d.Detected, domain.ViolationAbsence)
	}
	if DetectCommitmentMiss(CommitmentTally(in.WeekCommitments, in.Today)) {
		d.Detected = append(d.Detected, domain.ViolationCommitmentMiss)
	}
	d.escalate(in)
	return d
}

// DecideReported escalates a violation reported by hand rather than found
// by the weekly rules. It counts toward the streak like any detected type.
func DecideReported(in UserInput, typ domain.ViolationType) Decision {
	d := Decision{
		Week:     isoweek.Of(in.Today.Time()),
		Detected: []domain.ViolationType{typ},
	}
	d.escalate(in)
	return d
}

func (d *Decision) escalate(in UserInput) {
	logged := make(map[domain.ViolationType]bool)
	for _, v := range in.History {
		if v.WeekNumber == d.Week.Key() {
			logged[v.Type] = true
		}
	}
	for _, typ := range d.Detected {
		if !logged[typ] {
			d.Insert = append(d.Insert, typ)
		}
	}

	d.ConsecutiveWeeks = ConsecutiveWeeks(d.Week, in.History, len(d.Insert) > 0)
	d.Severity = SeverityFor(d.ConsecutiveWeeks)
	d.CreateTermination = d.Severity >= domain.SeverityTermination && !in.PendingTermination
}
