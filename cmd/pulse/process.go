package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studiopulse/pulse/internal/common"
	"github.com/studiopulse/pulse/internal/ingest"
	"github.com/studiopulse/pulse/internal/pipeline"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [files...]",
		Short: "Process studio CSV exports into performance metrics",
		Long: `Process CSV exports from the studio booking system.

Each file's layout (new clients, bookings, sales) is detected from its
header row, so files can be passed in any order. Multiple files of the
same type are concatenated.

Examples:
  # Process one export set
  pulse process clients.csv bookings.csv sales.csv

  # Process everything in a downloads folder
  pulse process ~/Downloads/studio_*.csv

  # Preview without saving
  pulse process --dry-run exports/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runProcess,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview results without saving")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to process")
	}

	slog.Info("💓 Processing studio exports...",
		"file_count", len(allFiles),
		"dry_run", dryRun)

	var in pipeline.Inputs
	for _, filePath := range allFiles {
		f, err := os.Open(filePath) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", filePath, err)
		}

		fileType, table, err := ingest.ParseFile(f, filepath.Base(filePath))
		_ = f.Close()
		if err != nil {
			if errors.Is(err, common.ErrUnknownLayout) {
				return common.NewUserError(
					fmt.Sprintf("%s does not look like a clients, bookings or sales export", filepath.Base(filePath)), err)
			}
			return err
		}

		switch fileType {
		case ingest.FileClients:
			in.Clients = append(in.Clients, ingest.Clients(table)...)
		case ingest.FileBookings:
			in.Bookings = append(in.Bookings, ingest.Bookings(table)...)
		case ingest.FileSales:
			in.Sales = append(in.Sales, ingest.Sales(table)...)
		}

		slog.Info("Parsed file",
			"file", filepath.Base(filePath),
			"type", fileType.String(),
			"rows", len(table.Rows))
	}

	source := "csv: " + strings.Join(baseNames(allFiles), ", ")
	return runAndStore(ctx, source, in, dryRun)
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}
