package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: runs and teacher metrics",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source TEXT NOT NULL,
					client_rows INTEGER NOT NULL DEFAULT 0,
					booking_rows INTEGER NOT NULL DEFAULT 0,
					sale_rows INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS teacher_metrics (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					run_id INTEGER NOT NULL,
					teacher TEXT NOT NULL,
					location TEXT NOT NULL,
					period TEXT NOT NULL,
					new_clients INTEGER NOT NULL DEFAULT 0,
					trials INTEGER NOT NULL DEFAULT 0,
					referrals INTEGER NOT NULL DEFAULT 0,
					hosted INTEGER NOT NULL DEFAULT 0,
					influencer_signups INTEGER NOT NULL DEFAULT 0,
					others INTEGER NOT NULL DEFAULT 0,
					retained_clients INTEGER NOT NULL DEFAULT 0,
					retention_rate REAL NOT NULL DEFAULT 0,
					converted_clients INTEGER NOT NULL DEFAULT 0,
					conversion_rate REAL NOT NULL DEFAULT 0,
					total_revenue REAL NOT NULL DEFAULT 0,
					avg_revenue_per_client REAL NOT NULL DEFAULT 0,
					FOREIGN KEY (run_id) REFERENCES runs(id)
				)`,
				`CREATE INDEX idx_teacher_metrics_run ON teacher_metrics(run_id)`,
				`CREATE INDEX idx_teacher_metrics_location ON teacher_metrics(location)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add booking tallies and channel rates to teacher metrics",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE teacher_metrics ADD COLUMN total_bookings INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN total_visits INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN cancellations INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN late_cancellations INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN no_shows INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN total_classes INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN unique_clients INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN no_show_rate REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN late_cancellation_rate REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN first_time_buyer_rate REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN influencer_conversion_rate REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN referral_conversion_rate REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE teacher_metrics ADD COLUMN trial_to_membership_rate REAL NOT NULL DEFAULT 0`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
