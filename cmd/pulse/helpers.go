package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/viper"

	"github.com/studiopulse/pulse/internal/cli"
	"github.com/studiopulse/pulse/internal/config"
	"github.com/studiopulse/pulse/internal/model"
	"github.com/studiopulse/pulse/internal/pipeline"
	"github.com/studiopulse/pulse/internal/storage"
)

// initStorage initializes the storage layer with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/pulse/pulse.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// runAndStore runs the pipeline over the given inputs, prints a summary,
// and persists the resulting metrics unless dryRun is set.
func runAndStore(ctx context.Context, source string, in pipeline.Inputs, dryRun bool) error {
	p := pipeline.New(slog.Default(), cli.NewPipelineProgress())

	result, err := p.Process(ctx, in)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	printSummary(result)

	if dryRun {
		slog.Info("🔍 Dry run complete - no data saved")
		return nil
	}

	if len(result.Metrics) == 0 {
		slog.Warn("No cohorts derived; nothing to save")
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	counts := [3]int{len(in.Clients), len(in.Bookings), len(in.Sales)}
	runID, err := store.SaveRun(ctx, source, counts, result.Metrics)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	slog.Info("💾 Saved pipeline run",
		"run_id", runID,
		"metrics", len(result.Metrics))
	return nil
}

// printSummary renders the headline numbers and top cohorts of a run.
func printSummary(result *model.Result) {
	var newClients, retained, converted int
	var revenue float64
	for _, m := range result.Metrics {
		if m.Teacher == model.RollupTeacher {
			continue
		}
		newClients += m.NewClients
		retained += m.RetainedClients
		converted += m.ConvertedClients
		revenue += m.TotalRevenue
	}

	content := fmt.Sprintf(`Locations: %d    Teachers: %d    Periods: %d
New clients: %d    Retained: %d    Converted: %d
Revenue from new clients: %.2f
Excluded (friends/family/staff): %d`,
		len(result.Locations), len(result.Teachers), len(result.Periods),
		newClients, retained, converted,
		revenue,
		len(result.Excluded))

	fmt.Println(cli.RenderBox(cli.ChartIcon+" Run summary", content))

	top := topCohortsByRevenue(result.Metrics, 5)
	if len(top) == 0 {
		return
	}

	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-20s %-16s %-8s %10s %10s %12s",
		"Teacher", "Location", "Period", "New", "Conv %", "Revenue")))
	for _, m := range top {
		fmt.Printf("%-20s %-16s %-8s %10d %9.1f%% %12.2f\n",
			m.Teacher, m.Location, m.Period, m.NewClients, m.ConversionRate, m.TotalRevenue)
	}
}

// topCohortsByRevenue returns up to n cohort records sorted by revenue,
// skipping the per-location rollups.
func topCohortsByRevenue(metrics []model.TeacherMetrics, n int) []model.TeacherMetrics {
	cohorts := make([]model.TeacherMetrics, 0, len(metrics))
	for _, m := range metrics {
		if m.Teacher != model.RollupTeacher {
			cohorts = append(cohorts, m)
		}
	}
	sort.SliceStable(cohorts, func(i, j int) bool {
		return cohorts[i].TotalRevenue > cohorts[j].TotalRevenue
	})
	if len(cohorts) > n {
		cohorts = cohorts[:n]
	}
	return cohorts
}
