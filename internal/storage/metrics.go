package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studiopulse/pulse/internal/model"
)

// Run describes one persisted pipeline run.
type Run struct {
	CreatedAt   time.Time
	Source      string
	ID          int64
	ClientRows  int
	BookingRows int
	SaleRows    int
}

// MetricsFilter narrows a metrics query. Empty fields match everything.
type MetricsFilter struct {
	Location string
	Period   string
}

// SaveRun persists a run header and all of its metrics records in one
// transaction, returning the new run ID. Detail lists and chart aggregates
// stay in memory; only the scalar fields are persisted.
func (s *SQLiteStorage) SaveRun(ctx context.Context, source string, counts [3]int, metrics []model.TeacherMetrics) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(source, "source"); err != nil {
		return 0, err
	}
	if len(metrics) == 0 {
		return 0, ErrNoMetrics
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, client_rows, booking_rows, sale_rows) VALUES (?, ?, ?, ?)`,
		source, counts[0], counts[1], counts[2])
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO teacher_metrics (
		run_id, teacher, location, period,
		new_clients, trials, referrals, hosted, influencer_signups, others,
		retained_clients, retention_rate,
		converted_clients, conversion_rate, total_revenue, avg_revenue_per_client,
		total_bookings, total_visits, cancellations, late_cancellations, no_shows,
		total_classes, unique_clients, no_show_rate, late_cancellation_rate,
		first_time_buyer_rate, influencer_conversion_rate, referral_conversion_rate, trial_to_membership_rate
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare metrics insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range metrics {
		m := &metrics[i]
		if _, err := stmt.ExecContext(ctx,
			runID, m.Teacher, m.Location, m.Period,
			m.NewClients, m.Trials, m.Referrals, m.Hosted, m.InfluencerSignups, m.Others,
			m.RetainedClients, m.RetentionRate,
			m.ConvertedClients, m.ConversionRate, m.TotalRevenue, m.AverageRevenuePerClient,
			m.TotalBookings, m.TotalVisits, m.Cancellations, m.LateCancellations, m.NoShows,
			m.TotalClasses, m.UniqueClients, m.NoShowRate, m.LateCancellationRate,
			m.FirstTimeBuyerRate, m.InfluencerConversionRate, m.ReferralConversionRate, m.TrialToMembershipRate,
		); err != nil {
			return 0, fmt.Errorf("failed to insert metrics for %s/%s/%s: %w", m.Teacher, m.Location, m.Period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recently saved run.
func (s *SQLiteStorage) LatestRun(ctx context.Context) (*Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, client_rows, booking_rows, sale_rows, created_at
		 FROM runs ORDER BY id DESC LIMIT 1`)

	var run Run
	err := row.Scan(&run.ID, &run.Source, &run.ClientRows, &run.BookingRows, &run.SaleRows, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRunsSaved
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest run: %w", err)
	}
	return &run, nil
}

// MetricsForRun loads a run's metrics records, optionally filtered by
// location and period, ordered as they were emitted.
func (s *SQLiteStorage) MetricsForRun(ctx context.Context, runID int64, filter MetricsFilter) ([]model.TeacherMetrics, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if runID <= 0 {
		return nil, ErrInvalidRunID
	}

	query := `SELECT teacher, location, period,
		new_clients, trials, referrals, hosted, influencer_signups, others,
		retained_clients, retention_rate,
		converted_clients, conversion_rate, total_revenue, avg_revenue_per_client,
		total_bookings, total_visits, cancellations, late_cancellations, no_shows,
		total_classes, unique_clients, no_show_rate, late_cancellation_rate,
		first_time_buyer_rate, influencer_conversion_rate, referral_conversion_rate, trial_to_membership_rate
		FROM teacher_metrics WHERE run_id = ?`
	args := []any{runID}

	if filter.Location != "" {
		query += " AND location = ?"
		args = append(args, filter.Location)
	}
	if filter.Period != "" {
		query += " AND period = ?"
		args = append(args, filter.Period)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var metrics []model.TeacherMetrics
	for rows.Next() {
		var m model.TeacherMetrics
		if err := rows.Scan(
			&m.Teacher, &m.Location, &m.Period,
			&m.NewClients, &m.Trials, &m.Referrals, &m.Hosted, &m.InfluencerSignups, &m.Others,
			&m.RetainedClients, &m.RetentionRate,
			&m.ConvertedClients, &m.ConversionRate, &m.TotalRevenue, &m.AverageRevenuePerClient,
			&m.TotalBookings, &m.TotalVisits, &m.Cancellations, &m.LateCancellations, &m.NoShows,
			&m.TotalClasses, &m.UniqueClients, &m.NoShowRate, &m.LateCancellationRate,
			&m.FirstTimeBuyerRate, &m.InfluencerConversionRate, &m.ReferralConversionRate, &m.TrialToMembershipRate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metrics row: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metrics rows: %w", err)
	}

	return metrics, nil
}
