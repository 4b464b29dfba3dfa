package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
)

// SQLiteEvidenceRepo implements EvidenceRepo using a SQLite database.
type SQLiteEvidenceRepo struct {
	db db.DBTX
}

func NewSQLiteEvidenceRepo(conn db.DBTX) *SQLiteEvidenceRepo {
	return &SQLiteEvidenceRepo{db: conn}
}

func (r *SQLiteEvidenceRepo) Create(ctx context.Context, e *domain.Evidence) error {
	query := `INSERT INTO evidence (id, user_id, kind, submitted_date, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, string(e.Kind), e.Date.String(), e.Content, timeToString(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting evidence: %w", err)
	}
	return nil
}

func (r *SQLiteEvidenceRepo) ListByUser(ctx context.Context, userID string, from, to domain.Day) ([]domain.Evidence, error) {
	query := `SELECT id, user_id, kind, submitted_date, content, created_at
		FROM evidence
		WHERE user_id = ? AND submitted_date >= ? AND submitted_date <= ?
		ORDER BY submitted_date, created_at`
	rows, err := r.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("listing evidence: %w", err)
	}
	defer rows.Close()

	var out []domain.Evidence
	for rows.Next() {
		var e domain.Evidence
		var kind, date, createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &kind, &date, &e.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning evidence row: %w", err)
		}
		if e.Date, err = parseDay("submitted_date", date); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		e.Kind = domain.EvidenceKind(kind)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evidence: %w", err)
	}
	return out, nil
}
