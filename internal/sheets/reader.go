package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/studiopulse/pulse/internal/common"
)

// Reader fetches export rows from the configured spreadsheet.
type Reader struct {
	service *sheetsapi.Service
	logger  *slog.Logger
	config  Config
}

// NewReader creates a Google Sheets source reader.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Reader{config: config, service: service, logger: logger}, nil
}

// createSheetsService creates a read-only Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheetsapi.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheetsapi.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheetsapi.SpreadsheetsReadonlyScope},
		}

		token := &oauth2.Token{RefreshToken: config.RefreshToken}
		if config.RefreshToken == "" && config.TokenFile != "" {
			cached, err := LoadToken(config.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("no cached token; run 'pulse auth sheets' first: %w", err)
			}
			token = cached
		}
		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	service, err := sheetsapi.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return service, nil
}

// ReadRange fetches one A1 range as a grid of strings, with retry.
func (r *Reader) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	var resp *sheetsapi.ValueRange

	retryOpts := common.RetryOptions{
		MaxAttempts:  r.config.RetryAttempts,
		InitialDelay: r.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err := common.WithRetry(ctx, func() error {
		var getErr error
		resp, getErr = r.service.Spreadsheets.Values.
			Get(r.config.SpreadsheetID, a1Range).
			Context(ctx).
			Do()
		return getErr
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", a1Range, err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%v", cell)
		}
		grid = append(grid, cells)
	}

	r.logger.Debug("Read sheet range", "range", a1Range, "rows", len(grid))
	return grid, nil
}

// ReadAll fetches the three export tabs (clients, bookings, sales).
func (r *Reader) ReadAll(ctx context.Context) (clients, bookings, sales [][]string, err error) {
	clients, err = r.ReadRange(ctx, r.config.ClientsRange)
	if err != nil {
		return nil, nil, nil, err
	}
	bookings, err = r.ReadRange(ctx, r.config.BookingsRange)
	if err != nil {
		return nil, nil, nil, err
	}
	sales, err = r.ReadRange(ctx, r.config.SalesRange)
	if err != nil {
		return nil, nil, nil, err
	}

	r.logger.Info("Fetched spreadsheet data",
		"client_rows", len(clients),
		"booking_rows", len(bookings),
		"sale_rows", len(sales))
	return clients, bookings, sales, nil
}
