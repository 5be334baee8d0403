package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/studiopulse/pulse/internal/cli"
	"github.com/studiopulse/pulse/internal/model"
	"github.com/studiopulse/pulse/internal/storage"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show metrics from the latest saved run",
		Long: `Show teacher performance metrics from the most recent saved run.

Examples:
  # All cohorts from the latest run
  pulse report

  # One location
  pulse report --location "Downtown"

  # One month at one location
  pulse report --location "Downtown" --period "Jan 24"`,
		RunE: runReport,
	}

	cmd.Flags().StringP("location", "l", "", "Filter by location")
	cmd.Flags().StringP("period", "p", "", "Filter by period (e.g. \"Jan 24\")")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	location, _ := cmd.Flags().GetString("location")
	period, _ := cmd.Flags().GetString("period")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	run, err := store.LatestRun(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoRunsSaved) {
			fmt.Println(cli.FormatWarning("No saved runs yet. Run 'pulse process' or 'pulse fetch' first."))
			return nil
		}
		return err
	}

	filter := storage.MetricsFilter{Location: location, Period: period}
	metrics, err := store.MetricsForRun(ctx, run.ID, filter)
	if err != nil {
		return err
	}

	slog.Debug("Loaded run metrics",
		"run_id", run.ID,
		"records", len(metrics))

	if len(metrics) == 0 {
		fmt.Println(cli.FormatWarning("No metrics match the given filters."))
		return nil
	}

	header := fmt.Sprintf("Run #%d    %s    %s",
		run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Source)
	fmt.Println(cli.FormatTitle("Teacher performance report"))
	fmt.Println(cli.SubtleStyle.Render(header))
	fmt.Println()

	printMetricsTable(metrics)
	return nil
}

func printMetricsTable(metrics []model.TeacherMetrics) {
	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-20s %-16s %-8s %5s %5s %7s %5s %7s %12s",
		"Teacher", "Location", "Period", "New", "Ret", "Ret %", "Conv", "Conv %", "Revenue")))

	for _, m := range metrics {
		line := fmt.Sprintf("%-20s %-16s %-8s %5d %5d %6.1f%% %5d %6.1f%% %12.2f",
			m.Teacher, m.Location, m.Period,
			m.NewClients, m.RetainedClients, m.RetentionRate,
			m.ConvertedClients, m.ConversionRate, m.TotalRevenue)
		if m.Teacher == model.RollupTeacher {
			fmt.Println(cli.SubtleStyle.Render(line))
		} else {
			fmt.Println(line)
		}
	}
}
