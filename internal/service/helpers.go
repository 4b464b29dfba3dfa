package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/metrics"
	"github.com/alexanderramin/mirror/internal/repository"
)

func resolveNow(now *time.Time) time.Time {
	if now != nil {
		return now.UTC()
	}
	return time.Now().UTC()
}

// loadAccount maps a missing account onto app.ErrUserNotFound.
func loadAccount(ctx context.Context, accounts repository.AccountRepo, userID string) (*domain.Account, error) {
	acc, err := accounts.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", app.ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	return acc, nil
}

// trialStart is the first day of the account's trial. Accounts that reached
// the active phase without a recorded start fall back to their creation day.
func trialStart(acc *domain.Account) domain.Day {
	if acc.TrialStartDate != nil {
		return *acc.TrialStartDate
	}
	return domain.DayIn(acc.CreatedAt, acc.Location())
}

// activityRepos groups the repositories the metrics engine reads from.
type activityRepos struct {
	checkins    repository.CheckinRepo
	commitments repository.CommitmentRepo
	evidence    repository.EvidenceRepo
}

func activityReposFor(conn db.DBTX) activityRepos {
	return activityRepos{
		checkins:    repository.NewSQLiteCheckinRepo(conn),
		commitments: repository.NewSQLiteCommitmentRepo(conn),
		evidence:    repository.NewSQLiteEvidenceRepo(conn),
	}
}

// window loads every record dated in [from, to] as a metrics input.
func (r activityRepos) window(ctx context.Context, userID string, from, to domain.Day) (metrics.Input, error) {
	in := metrics.Input{TrialStart: from, Today: to}
	var err error
	if in.Checkins, err = r.checkins.ListByUser(ctx, userID, from, to); err != nil {
		return in, fmt.Errorf("loading checkins: %w", err)
	}
	if in.Commitments, err = r.commitments.ListByUser(ctx, userID, from, to); err != nil {
		return in, fmt.Errorf("loading commitments: %w", err)
	}
	if in.Evidence, err = r.evidence.ListByUser(ctx, userID, from, to); err != nil {
		return in, fmt.Errorf("loading evidence: %w", err)
	}
	return in, nil
}

// escalationHistory returns the violations that still feed escalation.
// Answering a termination record starts the count over, so rows detected
// before the latest answer are left out.
func escalationHistory(ctx context.Context, violations repository.ViolationRepo, terminations repository.TerminationRepo, userID string) ([]domain.ViolationLog, error) {
	all, err := violations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading violation history: %w", err)
	}
	records, err := terminations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading termination records: %w", err)
	}

	var resetAt *time.Time
	for _, r := range records {
		if r.RespondedAt != nil && (resetAt == nil || r.RespondedAt.After(*resetAt)) {
			resetAt = r.RespondedAt
		}
	}
	if resetAt == nil {
		return all, nil
	}

	kept := all[:0]
	for _, v := range all {
		if v.DetectedAt.After(*resetAt) {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

// pendingTermination returns the user's pending record, or nil.
func pendingTermination(ctx context.Context, terminations repository.TerminationRepo, userID string) (*domain.TerminationRecord, error) {
	rec, err := terminations.GetPending(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading pending termination: %w", err)
	}
	return rec, nil
}

func newTerminationView(r *domain.TerminationRecord) *app.TerminationView {
	if r == nil {
		return nil
	}
	return &app.TerminationView{
		ID:              r.ID,
		Reason:          r.Reason,
		EvidenceSummary: r.EvidenceSummary,
		CreatedAt:       r.CreatedAt,
	}
}
