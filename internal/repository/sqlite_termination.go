package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
)

// SQLiteTerminationRepo implements TerminationRepo using a SQLite database.
// The evidence summary is stored as a JSON document.
type SQLiteTerminationRepo struct {
	db db.DBTX
}

func NewSQLiteTerminationRepo(conn db.DBTX) *SQLiteTerminationRepo {
	return &SQLiteTerminationRepo{db: conn}
}

const terminationColumns = `id, user_id, reason, initiated_by, final_choice, evidence_summary, responded_at, created_at`

func (r *SQLiteTerminationRepo) Insert(ctx context.Context, t *domain.TerminationRecord) (bool, error) {
	summary, err := json.Marshal(t.EvidenceSummary)
	if err != nil {
		return false, fmt.Errorf("encoding evidence summary: %w", err)
	}
	query := `INSERT INTO termination_records (` + terminationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Reason,
		t.InitiatedBy,
		string(t.FinalChoice),
		string(summary),
		nullableTimeToString(t.RespondedAt),
		timeToString(t.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("inserting termination record: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteTerminationRepo) GetPending(ctx context.Context, userID string) (*domain.TerminationRecord, error) {
	query := `SELECT ` + terminationColumns + ` FROM termination_records
		WHERE user_id = ? AND final_choice = 'pending'`
	t, err := scanTermination(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pending termination for %s: %w", userID, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTerminationRepo) ListByUser(ctx context.Context, userID string) ([]*domain.TerminationRecord, error) {
	query := `SELECT ` + terminationColumns + ` FROM termination_records
		WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing termination records: %w", err)
	}
	defer rows.Close()

	var out []*domain.TerminationRecord
	for rows.Next() {
		t, err := scanTermination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating termination records: %w", err)
	}
	return out, nil
}

func (r *SQLiteTerminationRepo) MarkChosen(ctx context.Context, t *domain.TerminationRecord) error {
	query := `UPDATE termination_records SET final_choice = ?, responded_at = ?
		WHERE id = ? AND final_choice = 'pending'`
	res, err := r.db.ExecContext(ctx, query,
		string(t.FinalChoice), nullableTimeToString(t.RespondedAt), t.ID)
	if err != nil {
		return fmt.Errorf("recording termination choice: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("termination record %s: %w", t.ID, domain.ErrAlreadyResolved)
	}
	return nil
}

func scanTermination(s rowScanner) (*domain.TerminationRecord, error) {
	var t domain.TerminationRecord
	var choice, summary, createdAt string
	var respondedAt sql.NullString

	err := s.Scan(&t.ID, &t.UserID, &t.Reason, &t.InitiatedBy, &choice, &summary, &respondedAt, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning termination record: %w", err)
	}
	if summary != "" {
		if err := json.Unmarshal([]byte(summary), &t.EvidenceSummary); err != nil {
			return nil, fmt.Errorf("decoding evidence summary: %w", err)
		}
	}
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	t.FinalChoice = domain.FinalChoice(choice)
	t.RespondedAt = parseNullableTime(respondedAt)
	return &t, nil
}
