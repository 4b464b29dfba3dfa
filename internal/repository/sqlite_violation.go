package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
)

// SQLiteViolationRepo implements ViolationRepo using a SQLite database.
type SQLiteViolationRepo struct {
	db db.DBTX
}

func NewSQLiteViolationRepo(conn db.DBTX) *SQLiteViolationRepo {
	return &SQLiteViolationRepo{db: conn}
}

const violationColumns = `id, user_id, type, severity, week_number, detected_at, resolved_at, resolution, user_response`

func (r *SQLiteViolationRepo) Insert(ctx context.Context, v *domain.ViolationLog) (bool, error) {
	query := `INSERT INTO violation_logs (` + violationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`
	var resolution any
	if v.Resolution != nil {
		resolution = string(*v.Resolution)
	}
	res, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.UserID,
		string(v.Type),
		int(v.Severity),
		v.WeekNumber,
		timeToString(v.DetectedAt),
		nullableTimeToString(v.ResolvedAt),
		resolution,
		nullableString(v.UserResponse),
	)
	if err != nil {
		return false, fmt.Errorf("inserting violation: %w", err)
	}
	return rowsAffected(res)
}

func (r *SQLiteViolationRepo) GetByID(ctx context.Context, id string) (*domain.ViolationLog, error) {
	query := `SELECT ` + violationColumns + ` FROM violation_logs WHERE id = ?`
	v, err := scanViolation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("violation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *SQLiteViolationRepo) ListByUser(ctx context.Context, userID string) ([]domain.ViolationLog, error) {
	query := `SELECT ` + violationColumns + ` FROM violation_logs
		WHERE user_id = ? ORDER BY week_number DESC, detected_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing violations: %w", err)
	}
	defer rows.Close()

	var out []domain.ViolationLog
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating violations: %w", err)
	}
	return out, nil
}

func (r *SQLiteViolationRepo) Resolve(ctx context.Context, v *domain.ViolationLog) error {
	if v.ResolvedAt == nil || v.Resolution == nil {
		return fmt.Errorf("violation %s has no resolution to store", v.ID)
	}
	query := `UPDATE violation_logs SET resolved_at = ?, resolution = ?, user_response = ?
		WHERE id = ? AND resolved_at IS NULL`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(v.ResolvedAt),
		string(*v.Resolution),
		nullableString(v.UserResponse),
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("resolving violation: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("violation %s: %w", v.ID, domain.ErrAlreadyResolved)
	}
	return nil
}

func scanViolation(s rowScanner) (domain.ViolationLog, error) {
	var v domain.ViolationLog
	var typ, detectedAt string
	var severity int
	var resolvedAt, resolution, response sql.NullString

	err := s.Scan(&v.ID, &v.UserID, &typ, &severity, &v.WeekNumber, &detectedAt, &resolvedAt, &resolution, &response)
	if err != nil {
		if err == sql.ErrNoRows {
			return v, err
		}
		return v, fmt.Errorf("scanning violation: %w", err)
	}
	if v.DetectedAt, err = parseTime("detected_at", detectedAt); err != nil {
		return v, err
	}
	v.Type = domain.ViolationType(typ)
	v.Severity = domain.Severity(severity)
	v.ResolvedAt = parseNullableTime(resolvedAt)
	if resolution.Valid {
		res := domain.Resolution(resolution.String)
		v.Resolution = &res
	}
	v.UserResponse = stringPtr(response)
	return v, nil
}
