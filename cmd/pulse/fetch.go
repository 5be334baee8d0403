package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/studiopulse/pulse/internal/config"
	"github.com/studiopulse/pulse/internal/ingest"
	"github.com/studiopulse/pulse/internal/pipeline"
	"github.com/studiopulse/pulse/internal/sheets"
)

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch exports from Google Sheets and process them",
		Long: `Fetch the three export tabs (new clients, bookings, sales) from the
configured Google Spreadsheet and run them through the pipeline.

Configuration comes from the config file (sheets.* keys), PULSE_ environment
variables, or GOOGLE_SHEETS_* environment variables.

Examples:
  # Fetch and process the configured spreadsheet
  pulse fetch

  # Preview without saving
  pulse fetch --dry-run`,
		RunE: runFetch,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview results without saving")

	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("failed to load sheets config: %w", err)
	}

	reader, err := sheets.NewReader(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets reader: %w", err)
	}

	slog.Info("📥 Fetching studio exports from spreadsheet...",
		"spreadsheet_id", sheetsConfig.SpreadsheetID)

	clientGrid, bookingGrid, saleGrid, err := reader.ReadAll(ctx)
	if err != nil {
		return err
	}

	in := pipeline.Inputs{
		Clients:  ingest.Clients(ingest.NewTable(clientGrid)),
		Bookings: ingest.Bookings(ingest.NewTable(bookingGrid)),
		Sales:    ingest.Sales(ingest.NewTable(saleGrid)),
	}

	source := "sheets: " + sheetsConfig.SpreadsheetID
	return runAndStore(ctx, source, in, dryRun)
}
