package service

import (
	"context"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
)

type MetricsService interface {
	app.MetricsUseCase
}

type ViolationService interface {
	app.WeeklyScanUseCase
	app.ViolationStatusUseCase
	app.ResolveViolationUseCase
	ReportViolation(ctx context.Context, req app.ManualViolationRequest) (*app.ManualViolationResult, error)
	List(ctx context.Context, userID string) ([]app.ViolationView, error)
}

type TerminationService interface {
	app.TerminationChoiceUseCase
}

// ActivityService is the write path for the raw activity the engines read.
type ActivityService interface {
	CreateAccount(ctx context.Context, a *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	// StartTrial begins the trial on start, or on the account's today when nil.
	StartTrial(ctx context.Context, userID string, start *domain.Day, now time.Time) (*domain.Account, error)
	LogCheckin(ctx context.Context, c *domain.Checkin) error
	AddCommitment(ctx context.Context, c *domain.Commitment) error
	CompleteCommitment(ctx context.Context, id string, now time.Time) (*domain.Commitment, error)
	SubmitEvidence(ctx context.Context, e *domain.Evidence) error
	SetVow(ctx context.Context, v *domain.Vow) error
}
