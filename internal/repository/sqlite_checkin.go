package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mirror/internal/db"
	"github.com/alexanderramin/mirror/internal/domain"
)

// SQLiteCheckinRepo implements CheckinRepo using a SQLite database.
type SQLiteCheckinRepo struct {
	db db.DBTX
}

func NewSQLiteCheckinRepo(conn db.DBTX) *SQLiteCheckinRepo {
	return &SQLiteCheckinRepo{db: conn}
}

func (r *SQLiteCheckinRepo) Create(ctx context.Context, c *domain.Checkin) error {
	query := `INSERT INTO checkins (id, user_id, checkin_date, kind, if_then_triggered, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.Date.String(),
		string(c.Kind),
		boolToInt(c.IfThenTriggered),
		c.Note,
		timeToString(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting checkin: %w", err)
	}
	return nil
}

func (r *SQLiteCheckinRepo) ListByUser(ctx context.Context, userID string, from, to domain.Day) ([]domain.Checkin, error) {
	query := `SELECT id, user_id, checkin_date, kind, if_then_triggered, note, created_at
		FROM checkins
		WHERE user_id = ? AND checkin_date >= ? AND checkin_date <= ?
		ORDER BY checkin_date, created_at`
	rows, err := r.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("listing checkins: %w", err)
	}
	defer rows.Close()

	var checkins []domain.Checkin
	for rows.Next() {
		var c domain.Checkin
		var date, kind, createdAt string
		var ifThen int
		if err := rows.Scan(&c.ID, &c.UserID, &date, &kind, &ifThen, &c.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning checkin row: %w", err)
		}
		if c.Date, err = parseDay("checkin_date", date); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		c.Kind = domain.CheckinKind(kind)
		c.IfThenTriggered = intToBool(ifThen)
		checkins = append(checkins, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating checkins: %w", err)
	}
	return checkins, nil
}
