package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
)

// SQLiteCommitmentRepo implements CommitmentRepo using a SQLite database.
type SQLiteCommitmentRepo struct {
	db db.DBTX
}

func NewSQLiteCommitmentRepo(conn db.DBTX) *SQLiteCommitmentRepo {
	return &SQLiteCommitmentRepo{db: conn}
}

const commitmentColumns = `id, user_id, title, due_date, status, completed_at, invalidated_at, created_at, updated_at`

func (r *SQLiteCommitmentRepo) Create(ctx context.Context, c *domain.Commitment) error {
	query := `INSERT INTO commitments (` + commitmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.Title,
		c.DueDate.String(),
		string(c.Status),
		nullableTimeToString(c.CompletedAt),
		nullableTimeToString(c.InvalidatedAt),
		timeToString(c.CreatedAt),
		timeToString(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting commitment: %w", err)
	}
	return nil
}

func (r *SQLiteCommitmentRepo) GetByID(ctx context.Context, id string) (*domain.Commitment, error) {
	query := `SELECT ` + commitmentColumns + ` FROM commitments WHERE id = ?`
	c, err := scanCommitment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("commitment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteCommitmentRepo) ListByUser(ctx context.Context, userID string, from, to domain.Day) ([]domain.Commitment, error) {
	query := `SELECT ` + commitmentColumns + ` FROM commitments
		WHERE user_id = ? AND due_date >= ? AND due_date <= ? AND invalidated_at IS NULL
		ORDER BY due_date, created_at`
	rows, err := r.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("listing commitments: %w", err)
	}
	defer rows.Close()

	var out []domain.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commitments: %w", err)
	}
	return out, nil
}

func (r *SQLiteCommitmentRepo) Update(ctx context.Context, c *domain.Commitment) error {
	query := `UPDATE commitments SET title = ?, due_date = ?, status = ?, completed_at = ?,
		invalidated_at = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		c.Title,
		c.DueDate.String(),
		string(c.Status),
		nullableTimeToString(c.CompletedAt),
		nullableTimeToString(c.InvalidatedAt),
		timeToString(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating commitment: %w", err)
	}
	return nil
}

// InvalidatePending stamps every still-pending commitment of the user.
func (r *SQLiteCommitmentRepo) InvalidatePending(ctx context.Context, userID string, at time.Time) (int64, error) {
	query := `UPDATE commitments SET invalidated_at = ?, updated_at = ?
		WHERE user_id = ? AND status = 'pending' AND invalidated_at IS NULL`
	ts := timeToString(at)
	res, err := r.db.ExecContext(ctx, query, ts, ts, userID)
	if err != nil {
		return 0, fmt.Errorf("invalidating pending commitments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}

func scanCommitment(s rowScanner) (domain.Commitment, error) {
	var c domain.Commitment
	var due, status, createdAt, updatedAt string
	var completedAt, invalidatedAt sql.NullString

	err := s.Scan(&c.ID, &c.UserID, &c.Title, &due, &status, &completedAt, &invalidatedAt, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return c, err
		}
		return c, fmt.Errorf("scanning commitment: %w", err)
	}
	if c.DueDate, err = parseDay("due_date", due); err != nil {
		return c, err
	}
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return c, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return c, err
	}
	c.Status = domain.CommitmentStatus(status)
	c.CompletedAt = parseNullableTime(completedAt)
	c.InvalidatedAt = parseNullableTime(invalidatedAt)
	return c, nil
}
