package domain

import (
	"fmt"
	"time"
)

type Account struct {
	ID             string
	DisplayName    string
	Phase          AccountPhase
	Timezone       string
	TrialStartDate *Day
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Location returns the account's time zone, falling back to UTC when the
// stored name is empty or unknown.
func (a *Account) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Today returns the account holder's calendar day at now.
func (a *Account) Today(now time.Time) Day {
	return DayIn(now, a.Location())
}

// IsActive reports whether the weekly violation scan covers this account.
func (a *Account) IsActive() bool {
	return a.Phase == PhaseTrial || a.Phase == PhaseActive
}

// StartTrial moves an onboarding account into the trial. A paused account
// resumes its existing trial, so start only applies when none was recorded.
func (a *Account) StartTrial(start Day, now time.Time) error {
	switch a.Phase {
	case PhaseOnboarding:
		a.TrialStartDate = &start
	case PhasePaused:
		if a.TrialStartDate == nil {
			a.TrialStartDate = &start
		}
	default:
		return fmt.Errorf("cannot start trial from phase %s", a.Phase)
	}
	a.Phase = PhaseTrial
	a.UpdatedAt = now
	return nil
}

// ApplyChoice performs the phase transition for a termination choice.
func (a *Account) ApplyChoice(choice FinalChoice, now time.Time) error {
	switch choice {
	case ChoicePause:
		a.Phase = PhasePaused
	case ChoiceRedesign:
		a.Phase = PhaseOnboarding
	case ChoiceTerminate:
		a.Phase = PhaseTerminated
	default:
		return fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}
	a.UpdatedAt = now
	return nil
}
