package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/repository"
)

type terminationService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTerminationService(uow db.UnitOfWork, observers ...UseCaseObserver) TerminationService {
	return &terminationService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Resolve records the user's answer to their pending termination record and
// applies it to the account in a single transaction. Only the first of two
// concurrent answers wins; the other gets domain.ErrAlreadyResolved.
func (s *terminationService) Resolve(ctx context.Context, req app.TerminationChoiceRequest) (result *app.TerminationChoiceResult, err error) {
	fields := map[string]any{"user_id": req.UserID, "choice": string(req.Choice)}
	defer observe(ctx, s.observer, "termination-choice", time.Now(), fields, &err)

	if !domain.ValidChoices[string(req.Choice)] {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidChoice, req.Choice)
	}
	now := resolveNow(req.Now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		accounts := repository.NewSQLiteAccountRepo(tx)
		terminations := repository.NewSQLiteTerminationRepo(tx)

		acc, err := loadAccount(ctx, accounts, req.UserID)
		if err != nil {
			return err
		}
		rec, err := terminations.GetPending(ctx, acc.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return s.noPending(ctx, terminations, acc.ID)
		}
		if err != nil {
			return fmt.Errorf("loading pending termination: %w", err)
		}

		if err := rec.Choose(req.Choice, now); err != nil {
			return err
		}
		if err := terminations.MarkChosen(ctx, rec); err != nil {
			return err
		}
		if err := acc.ApplyChoice(req.Choice, now); err != nil {
			return err
		}
		if err := accounts.Update(ctx, acc); err != nil {
			return fmt.Errorf("updating account phase: %w", err)
		}

		result = &app.TerminationChoiceResult{RecordID: rec.ID, Choice: req.Choice, Phase: acc.Phase}
		if req.Choice != domain.ChoiceRedesign {
			return nil
		}
		vows, err := repository.NewSQLiteVowRepo(tx).InvalidateCurrent(ctx, acc.ID, now)
		if err != nil {
			return fmt.Errorf("invalidating vow: %w", err)
		}
		result.VowInvalidated = vows > 0
		if result.InvalidatedCommitments, err = repository.NewSQLiteCommitmentRepo(tx).InvalidatePending(ctx, acc.ID, now); err != nil {
			return fmt.Errorf("invalidating commitments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["phase"] = string(result.Phase)
	return result, nil
}

// noPending distinguishes a repeated answer from a user who was never asked.
func (s *terminationService) noPending(ctx context.Context, terminations repository.TerminationRepo, userID string) error {
	records, err := terminations.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading termination records: %w", err)
	}
	if len(records) > 0 {
		return fmt.Errorf("termination for %s: %w", userID, domain.ErrAlreadyResolved)
	}
	return fmt.Errorf("%w: %s", app.ErrNoPendingTermination, userID)
}
