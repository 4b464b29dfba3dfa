package testutil

import (
	"time"

	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/google/uuid"
)

// Account options
type AccountOption func(*domain.Account)

func WithPhase(p domain.AccountPhase) AccountOption {
	return func(a *domain.Account) {
		a.Phase = p
	}
}

func WithTimezone(tz string) AccountOption {
	return func(a *domain.Account) {
		a.Timezone = tz
	}
}

// WithTrialStart puts the account in the trial phase starting on d.
func WithTrialStart(d domain.Day) AccountOption {
	return func(a *domain.Account) {
		a.Phase = domain.PhaseTrial
		a.TrialStartDate = &d
	}
}

func WithoutTrial() AccountOption {
	return func(a *domain.Account) {
		a.Phase = domain.PhaseOnboarding
		a.TrialStartDate = nil
	}
}

// NewTestAccount returns a trial account that started ten days ago (UTC).
func NewTestAccount(name string, opts ...AccountOption) *domain.Account {
	now := time.Now().UTC()
	start := domain.DayOf(now).AddDays(-10)
	a := &domain.Account{
		ID:             uuid.New().String(),
		DisplayName:    name,
		Phase:          domain.PhaseTrial,
		Timezone:       "UTC",
		TrialStartDate: &start,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Checkin options
type CheckinOption func(*domain.Checkin)

func WithIfThen() CheckinOption {
	return func(c *domain.Checkin) {
		c.IfThenTriggered = true
	}
}

func WithCheckinKind(k domain.CheckinKind) CheckinOption {
	return func(c *domain.Checkin) {
		c.Kind = k
	}
}

func WithCheckinNote(n string) CheckinOption {
	return func(c *domain.Checkin) {
		c.Note = n
	}
}

func NewTestCheckin(userID string, day domain.Day, opts ...CheckinOption) *domain.Checkin {
	c := &domain.Checkin{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      day,
		Kind:      domain.CheckinText,
		CreatedAt: day.Time().Add(20 * time.Hour),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Commitment options
type CommitmentOption func(*domain.Commitment)

func WithCompleted() CommitmentOption {
	return func(c *domain.Commitment) {
		at := c.DueDate.Time().Add(12 * time.Hour)
		c.Status = domain.CommitmentCompleted
		c.CompletedAt = &at
	}
}

func WithInvalidated(at time.Time) CommitmentOption {
	return func(c *domain.Commitment) {
		c.InvalidatedAt = &at
	}
}

func NewTestCommitment(userID, title string, due domain.Day, opts ...CommitmentOption) *domain.Commitment {
	created := due.Time().AddDate(0, 0, -3)
	c := &domain.Commitment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		DueDate:   due,
		Status:    domain.CommitmentPending,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewTestEvidence(userID string, day domain.Day, kind domain.EvidenceKind) *domain.Evidence {
	return &domain.Evidence{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Date:      day,
		Content:   "evidence on " + day.String(),
		CreatedAt: day.Time().Add(18 * time.Hour),
	}
}

func NewTestVow(userID, statement string) *domain.Vow {
	return &domain.Vow{
		ID:        uuid.New().String(),
		UserID:    userID,
		Statement: statement,
		CreatedAt: time.Now().UTC(),
	}
}

// Violation options
type ViolationOption func(*domain.ViolationLog)

func WithResolution(r domain.Resolution, at time.Time) ViolationOption {
	return func(v *domain.ViolationLog) {
		v.Resolution = &r
		v.ResolvedAt = &at
	}
}

func WithDetectedAt(at time.Time) ViolationOption {
	return func(v *domain.ViolationLog) {
		v.DetectedAt = at
	}
}

func WithSeverity(s domain.Severity) ViolationOption {
	return func(v *domain.ViolationLog) {
		v.Severity = s
	}
}

func NewTestViolation(userID string, typ domain.ViolationType, week int, opts ...ViolationOption) *domain.ViolationLog {
	v := &domain.ViolationLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       typ,
		Severity:   domain.SeverityWarning,
		WeekNumber: week,
		DetectedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func NewTestTermination(userID string) *domain.TerminationRecord {
	return &domain.TerminationRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		Reason:      "three consecutive violation weeks",
		InitiatedBy: "system",
		FinalChoice: domain.ChoicePending,
		CreatedAt:   time.Now().UTC(),
	}
}
