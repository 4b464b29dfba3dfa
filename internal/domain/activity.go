package domain

import (
	"fmt"
	"time"
)

// Checkin is one daily activity record. IfThenTriggered marks that the user
// executed a pre-committed if-then plan that day.
type Checkin struct {
	ID              string
	UserID          string
	Date            Day
	Kind            CheckinKind
	IfThenTriggered bool
	Note            string
	CreatedAt       time.Time
}

type Commitment struct {
	ID            string
	UserID        string
	Title         string
	DueDate       Day
	Status        CommitmentStatus
	CompletedAt   *time.Time
	InvalidatedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Complete marks a pending commitment as completed.
func (c *Commitment) Complete(now time.Time) error {
	if c.InvalidatedAt != nil {
		return fmt.Errorf("commitment %s was invalidated", c.ID)
	}
	if c.Status == CommitmentCompleted {
		return fmt.Errorf("commitment %s is already completed", c.ID)
	}
	c.Status = CommitmentCompleted
	c.CompletedAt = &now
	c.UpdatedAt = now
	return nil
}

type Evidence struct {
	ID        string
	UserID    string
	Kind      EvidenceKind
	Date      Day
	Content   string
	CreatedAt time.Time
}

// Vow is the statement a user commits to during onboarding.
type Vow struct {
	ID            string
	UserID        string
	Statement     string
	InvalidatedAt *time.Time
	CreatedAt     time.Time
}
