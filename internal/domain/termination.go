package domain

import (
	"fmt"
	"time"
)

// EvidenceSummary is a point-in-time snapshot shown to the user while they
// decide what to do with a termination record.
type EvidenceSummary struct {
	CheckinDays   int `json:"checkin_days"`
	IfThenCount   int `json:"if_then_count"`
	EvidenceCount int `json:"evidence_count"`
}

type TerminationRecord struct {
	ID              string
	UserID          string
	Reason          string
	InitiatedBy     string
	FinalChoice     FinalChoice
	EvidenceSummary EvidenceSummary
	RespondedAt     *time.Time
	CreatedAt       time.Time
}

// Pending reports whether the record still awaits the user's choice.
func (r *TerminationRecord) Pending() bool {
	return r.FinalChoice == ChoicePending
}

// Choose records the final choice exactly once.
func (r *TerminationRecord) Choose(choice FinalChoice, now time.Time) error {
	if !ValidChoices[string(choice)] {
		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
	if !r.Pending() {
		return fmt.Errorf("termination record %s: %w", r.ID, ErrAlreadyResolved)
	}
	r.FinalChoice = choice
	r.RespondedAt = &now
	return nil
}
