// Package sheets reads studio export data from a shared Google Spreadsheet.
package sheets

import (
	"fmt"
	"time"
)

// Config holds the configuration for the Google Sheets source.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	TokenFile          string
	SpreadsheetID      string

	// A1 ranges of the three export tabs, header row included.
	ClientsRange  string
	BookingsRange string
	SalesRange    string

	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ClientsRange:  "New Clients!A:Z",
		BookingsRange: "Bookings!A:Z",
		SalesRange:    "Sales!A:Z",
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("no authentication method configured")
	}
	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or service account")
	}

	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet ID is required")
	}
	if c.ClientsRange == "" || c.BookingsRange == "" || c.SalesRange == "" {
		return fmt.Errorf("all three tab ranges (clients, bookings, sales) are required")
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}

	return nil
}
