package domain

import (
	"fmt"
	"time"
)

type ViolationLog struct {
	ID           string
	UserID       string
	Type         ViolationType
	Severity     Severity
	WeekNumber   int // ISO year-week key, YYYYWW
	DetectedAt   time.Time
	ResolvedAt   *time.Time
	Resolution   *Resolution
	UserResponse *string
}

// Countable reports whether the row contributes to an escalation streak. A
// week the user dismissed or explicitly chose to continue through does not.
func (v *ViolationLog) Countable() bool {
	if v.ResolvedAt == nil || v.Resolution == nil {
		return true
	}
	return *v.Resolution != ResolutionDismissed && *v.Resolution != ResolutionContinued
}

// Resolve records the user's response. A violation resolves at most once.
func (v *ViolationLog) Resolve(res Resolution, response string, now time.Time) error {
	if !ValidResolutions[string(res)] {
		return fmt.Errorf("%w: %q", ErrInvalidResolution, res)
	}
	if v.ResolvedAt != nil {
		return fmt.Errorf("violation %s: %w", v.ID, ErrAlreadyResolved)
	}
	v.ResolvedAt = &now
	v.Resolution = &res
	if response != "" {
		v.UserResponse = &response
	}
	return nil
}
