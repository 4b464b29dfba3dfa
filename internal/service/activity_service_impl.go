package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/alexanderramin/mirror/internal/repository"
	"github.com/google/uuid"
)

type activityService struct {
	conn     db.DBTX
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewActivityService(conn db.DBTX, uow db.UnitOfWork, observers ...UseCaseObserver) ActivityService {
	return &activityService{conn: conn, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *activityService) CreateAccount(ctx context.Context, a *domain.Account) (err error) {
	defer observe(ctx, s.observer, "create-account", time.Now(), map[string]any{"phase": string(a.Phase)}, &err)

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Phase == "" {
		a.Phase = domain.PhaseOnboarding
	}
	if a.Timezone == "" {
		a.Timezone = "UTC"
	}
	if _, tzErr := time.LoadLocation(a.Timezone); tzErr != nil {
		return fmt.Errorf("unknown timezone %q: %w", a.Timezone, tzErr)
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = a.CreatedAt
	return repository.NewSQLiteAccountRepo(s.conn).Create(ctx, a)
}

func (s *activityService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return loadAccount(ctx, repository.NewSQLiteAccountRepo(s.conn), id)
}

func (s *activityService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return repository.NewSQLiteAccountRepo(s.conn).List(ctx)
}

func (s *activityService) StartTrial(ctx context.Context, userID string, start *domain.Day, now time.Time) (acc *domain.Account, err error) {
	defer observe(ctx, s.observer, "start-trial", time.Now(), map[string]any{"user_id": userID}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		accounts := repository.NewSQLiteAccountRepo(tx)
		var err error
		if acc, err = loadAccount(ctx, accounts, userID); err != nil {
			return err
		}
		day := acc.Today(now)
		if start != nil {
			day = *start
		}
		if err := acc.StartTrial(day, now); err != nil {
			return err
		}
		return accounts.Update(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *activityService) LogCheckin(ctx context.Context, c *domain.Checkin) (err error) {
	defer observe(ctx, s.observer, "log-checkin", time.Now(), map[string]any{"user_id": c.UserID}, &err)

	if err := s.requireAccount(ctx, c.UserID); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Kind == "" {
		c.Kind = domain.CheckinText
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return repository.NewSQLiteCheckinRepo(s.conn).Create(ctx, c)
}

func (s *activityService) AddCommitment(ctx context.Context, c *domain.Commitment) (err error) {
	defer observe(ctx, s.observer, "add-commitment", time.Now(), map[string]any{"user_id": c.UserID}, &err)

	if c.Title == "" {
		return fmt.Errorf("commitment title is required")
	}
	if err := s.requireAccount(ctx, c.UserID); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = domain.CommitmentPending
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = c.CreatedAt
	return repository.NewSQLiteCommitmentRepo(s.conn).Create(ctx, c)
}

func (s *activityService) CompleteCommitment(ctx context.Context, id string, now time.Time) (c *domain.Commitment, err error) {
	defer observe(ctx, s.observer, "complete-commitment", time.Now(), map[string]any{"commitment_id": id}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		commitments := repository.NewSQLiteCommitmentRepo(tx)
		var err error
		if c, err = commitments.GetByID(ctx, id); err != nil {
			return fmt.Errorf("loading commitment: %w", err)
		}
		if err := c.Complete(now); err != nil {
			return err
		}
		return commitments.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *activityService) SubmitEvidence(ctx context.Context, e *domain.Evidence) (err error) {
	defer observe(ctx, s.observer, "submit-evidence", time.Now(), map[string]any{"user_id": e.UserID, "kind": string(e.Kind)}, &err)

	if err := s.requireAccount(ctx, e.UserID); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return repository.NewSQLiteEvidenceRepo(s.conn).Create(ctx, e)
}

// SetVow replaces the user's current vow.
func (s *activityService) SetVow(ctx context.Context, v *domain.Vow) (err error) {
	defer observe(ctx, s.observer, "set-vow", time.Now(), map[string]any{"user_id": v.UserID}, &err)

	if v.Statement == "" {
		return fmt.Errorf("vow statement is required")
	}
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := loadAccount(ctx, repository.NewSQLiteAccountRepo(tx), v.UserID); err != nil {
			return err
		}
		vows := repository.NewSQLiteVowRepo(tx)
		if _, err := vows.InvalidateCurrent(ctx, v.UserID, v.CreatedAt); err != nil {
			return fmt.Errorf("retiring previous vow: %w", err)
		}
		return vows.Create(ctx, v)
	})
}

func (s *activityService) requireAccount(ctx context.Context, userID string) error {
	_, err := loadAccount(ctx, repository.NewSQLiteAccountRepo(s.conn), userID)
	return err
}
