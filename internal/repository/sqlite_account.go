package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
)

// SQLiteAccountRepo implements AccountRepo using a SQLite database.
type SQLiteAccountRepo struct {
	db db.DBTX
}

func NewSQLiteAccountRepo(conn db.DBTX) *SQLiteAccountRepo {
	return &SQLiteAccountRepo{db: conn}
}

const accountColumns = `id, display_name, phase, timezone, trial_start_date, created_at, updated_at`

func (r *SQLiteAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.DisplayName,
		string(a.Phase),
		a.Timezone,
		nullableDayToString(a.TrialStartDate),
		timeToString(a.CreatedAt),
		timeToString(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	return nil
}

func (r *SQLiteAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return a, err
}

func (r *SQLiteAccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *SQLiteAccountRepo) ListActive(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE phase IN ('trial', 'active') ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *SQLiteAccountRepo) Update(ctx context.Context, a *domain.Account) error {
	query := `UPDATE accounts SET display_name = ?, phase = ?, timezone = ?,
		trial_start_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.DisplayName,
		string(a.Phase),
		a.Timezone,
		nullableDayToString(a.TrialStartDate),
		timeToString(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("account %s: %w", a.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteAccountRepo) list(ctx context.Context, query string) ([]*domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}
	return accounts, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(s rowScanner) (*domain.Account, error) {
	var a domain.Account
	var phase, createdAt, updatedAt string
	var trialStart sql.NullString

	if err := s.Scan(&a.ID, &a.DisplayName, &phase, &a.Timezone, &trialStart, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning account: %w", err)
	}
	a.Phase = domain.AccountPhase(phase)

	if trialStart.Valid && trialStart.String != "" {
		d, err := parseDay("trial_start_date", trialStart.String)
		if err != nil {
			return nil, err
		}
		a.TrialStartDate = &d
	}

	var err error
	if a.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
