package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
)

// SQLiteVowRepo implements VowRepo using a SQLite database.
type SQLiteVowRepo struct {
	db db.DBTX
}

func NewSQLiteVowRepo(conn db.DBTX) *SQLiteVowRepo {
	return &SQLiteVowRepo{db: conn}
}

func (r *SQLiteVowRepo) Create(ctx context.Context, v *domain.Vow) error {
	query := `INSERT INTO vows (id, user_id, statement, invalidated_at, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.UserID, v.Statement, nullableTimeToString(v.InvalidatedAt), timeToString(v.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting vow: %w", err)
	}
	return nil
}

// GetCurrent returns the newest vow that has not been invalidated.
func (r *SQLiteVowRepo) GetCurrent(ctx context.Context, userID string) (*domain.Vow, error) {
	query := `SELECT id, user_id, statement, invalidated_at, created_at FROM vows
		WHERE user_id = ? AND invalidated_at IS NULL
		ORDER BY created_at DESC, rowid DESC LIMIT 1`

	var v domain.Vow
	var invalidatedAt sql.NullString
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&v.ID, &v.UserID, &v.Statement, &invalidatedAt, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("vow for %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning vow: %w", err)
	}
	if v.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	v.InvalidatedAt = parseNullableTime(invalidatedAt)
	return &v, nil
}

// InvalidateCurrent stamps every live vow of the user.
func (r *SQLiteVowRepo) InvalidateCurrent(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vows SET invalidated_at = ? WHERE user_id = ? AND invalidated_at IS NULL`,
		timeToString(at), userID)
	if err != nil {
		return 0, fmt.Errorf("invalidating vow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}
