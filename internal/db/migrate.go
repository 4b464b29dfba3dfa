package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateDedupViolationLogs(db); err != nil {
		return fmt.Errorf("deduplicating violation_logs: %w", err)
	}
	if err := migrateDedupPendingTerminations(db); err != nil {
		return fmt.Errorf("deduplicating pending termination_records: %w", err)
	}
	for i, stmt := range uniqueIndexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("unique index %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id               TEXT PRIMARY KEY,
		display_name     TEXT NOT NULL DEFAULT '',
		phase            TEXT NOT NULL DEFAULT 'onboarding'
		                 CHECK(phase IN ('onboarding','trial','active','paused','terminated')),
		timezone         TEXT NOT NULL DEFAULT 'UTC',
		trial_start_date TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_accounts_phase ON accounts(phase)`,

	`CREATE TABLE IF NOT EXISTS checkins (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		checkin_date      TEXT NOT NULL,
		kind              TEXT NOT NULL DEFAULT 'text' CHECK(kind IN ('text','voice')),
		if_then_triggered INTEGER NOT NULL DEFAULT 0,
		note              TEXT NOT NULL DEFAULT '',
		created_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_checkins_user_date ON checkins(user_id, checkin_date)`,

	`CREATE TABLE IF NOT EXISTS commitments (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		title          TEXT NOT NULL,
		due_date       TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'pending'
		               CHECK(status IN ('pending','completed','missed')),
		completed_at   TEXT,
		invalidated_at TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_commitments_user_due ON commitments(user_id, due_date)`,

	`CREATE TABLE IF NOT EXISTS evidence (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		kind           TEXT NOT NULL CHECK(kind IN ('image','url','note')),
		submitted_date TEXT NOT NULL,
		content        TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_evidence_user_date ON evidence(user_id, submitted_date)`,

	`CREATE TABLE IF NOT EXISTS vows (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		statement      TEXT NOT NULL,
		invalidated_at TEXT,
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_vows_user ON vows(user_id)`,

	`CREATE TABLE IF NOT EXISTS violation_logs (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		type          TEXT NOT NULL CHECK(type IN ('commitment_miss','absence','false_report')),
		severity      INTEGER NOT NULL CHECK(severity BETWEEN 1 AND 3),
		week_number   INTEGER NOT NULL,
		detected_at   TEXT NOT NULL,
		resolved_at   TEXT,
		resolution    TEXT CHECK(resolution IS NULL OR resolution IN ('warning_accepted','renegotiated','continued','dismissed')),
		user_response TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_violation_logs_user_week ON violation_logs(user_id, week_number)`,

	`CREATE TABLE IF NOT EXISTS termination_records (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		reason           TEXT NOT NULL DEFAULT '',
		initiated_by     TEXT NOT NULL DEFAULT 'system',
		final_choice     TEXT NOT NULL DEFAULT 'pending'
		                 CHECK(final_choice IN ('pending','pause','redesign','terminate')),
		evidence_summary TEXT NOT NULL DEFAULT '{}',
		responded_at     TEXT,
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_termination_records_user ON termination_records(user_id)`,
}

// uniqueIndexes run after the dedup passes so that databases written before
// the constraints existed can still be upgraded.
var uniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_violation_logs_triple
		ON violation_logs(user_id, type, week_number)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_termination_records_pending
		ON termination_records(user_id) WHERE final_choice = 'pending'`,
}

// migrateDedupViolationLogs keeps the earliest row of every
// (user_id, type, week_number) triple. Idempotent.
func migrateDedupViolationLogs(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), `DELETE FROM violation_logs
		WHERE rowid NOT IN (
			SELECT MIN(rowid) FROM violation_logs
			GROUP BY user_id, type, week_number
		)`)
	return err
}

// migrateDedupPendingTerminations keeps the earliest pending record per user.
func migrateDedupPendingTerminations(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), `DELETE FROM termination_records
		WHERE final_choice = 'pending'
		  AND rowid NOT IN (
			SELECT MIN(rowid) FROM termination_records
			WHERE final_choice = 'pending'
			GROUP BY user_id
		)`)
	return err
}
