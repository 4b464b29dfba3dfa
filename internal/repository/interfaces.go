package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/mirror/internal/domain"
)

// ErrNotFound is wrapped by every Get* method when no row matches.
var ErrNotFound = errors.New("not found")

type AccountRepo interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	// ListActive returns accounts in the trial or active phase.
	ListActive(ctx context.Context) ([]*domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
}

// Day ranges below are inclusive on both ends.

type CheckinRepo interface {
	Create(ctx context.Context, c *domain.Checkin) error
	ListByUser(ctx context.Context, userID string, from, to domain.Day) ([]domain.Checkin, error)
}

type CommitmentRepo interface {
	Create(ctx context.Context, c *domain.Commitment) error
	GetByID(ctx context.Context, id string) (*domain.Commitment, error)
	// ListByUser returns commitments due in [from, to], invalidated ones excluded.
	ListByUser(ctx context.Context, userID string, from, to domain.Day) ([]domain.Commitment, error)
	Update(ctx context.Context, c *domain.Commitment) error
	InvalidatePending(ctx context.Context, userID string, at time.Time) (int64, error)
}

type EvidenceRepo interface {
	Create(ctx context.Context, e *domain.Evidence) error
	ListByUser(ctx context.Context, userID string, from, to domain.Day) ([]domain.Evidence, error)
}

type VowRepo interface {
	Create(ctx context.Context, v *domain.Vow) error
	GetCurrent(ctx context.Context, userID string) (*domain.Vow, error)
	InvalidateCurrent(ctx context.Context, userID string, at time.Time) (int64, error)
}

type ViolationRepo interface {
	// Insert stores v unless a row with the same (user, type, week) exists.
	// It reports whether a row was written.
	Insert(ctx context.Context, v *domain.ViolationLog) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.ViolationLog, error)
	// ListByUser returns the user's violations, newest week first.
	ListByUser(ctx context.Context, userID string) ([]domain.ViolationLog, error)
	// Resolve persists v's resolution. It fails with domain.ErrAlreadyResolved
	// if the stored row was resolved first.
	Resolve(ctx context.Context, v *domain.ViolationLog) error
}

type TerminationRepo interface {
	// Insert stores r unless the user already has a pending record.
	Insert(ctx context.Context, r *domain.TerminationRecord) (bool, error)
	GetPending(ctx context.Context, userID string) (*domain.TerminationRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.TerminationRecord, error)
	// MarkChosen persists r's final choice only while the stored row is
	// pending, otherwise it returns domain.ErrAlreadyResolved.
	MarkChosen(ctx context.Context, r *domain.TerminationRecord) error
}
