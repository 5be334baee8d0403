// Package ingest parses studio CSV exports and spreadsheet value grids into
// canonical domain records. All loose field-name handling lives here: each
// record field has a list of accepted header aliases resolved once per
// table, so downstream code never branches on field-name variants.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/studiopulse/pulse/internal/common"
	"github.com/studiopulse/pulse/internal/dates"
	"github.com/studiopulse/pulse/internal/model"
)

// FileType categorizes a studio export by its header signature.
type FileType int

// Recognized export layouts.
const (
	FileUnknown FileType = iota
	FileClients
	FileBookings
	FileSales
)

func (f FileType) String() string {
	switch f {
	case FileClients:
		return "new clients"
	case FileBookings:
		return "bookings"
	case FileSales:
		return "sales"
	default:
		return "unknown"
	}
}

// Table is a parsed grid of cells with a header row.
type Table struct {
	index  map[string]int
	Header []string
	Rows   [][]string
}

// ReadCSV parses CSV content into a Table.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // exports frequently have ragged trailing columns

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrUnknownLayout)
	}

	return NewTable(records), nil
}

// NewTable builds a Table from a raw value grid (first row is the header).
// Spreadsheet ranges and CSV files funnel through the same constructor so
// both sources produce identical records.
func NewTable(grid [][]string) *Table {
	t := &Table{index: make(map[string]int)}
	if len(grid) == 0 {
		return t
	}
	t.Header = grid[0]
	t.Rows = grid[1:]
	for i, col := range t.Header {
		key := normalizeHeader(col)
		if _, exists := t.index[key]; !exists {
			t.index[key] = i
		}
	}
	return t
}

// normalizeHeader lowercases a header cell and strips spaces and
// punctuation so "Class Date", "class_date" and "ClassDate" all resolve.
func normalizeHeader(col string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(col) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// has reports whether the table header contains any of the aliases.
func (t *Table) has(aliases ...string) bool {
	for _, alias := range aliases {
		if _, ok := t.index[normalizeHeader(alias)]; ok {
			return true
		}
	}
	return false
}

// get returns the trimmed cell for the first alias present in the header,
// or "" when the column or cell is missing.
func (t *Table) get(row []string, aliases ...string) string {
	for _, alias := range aliases {
		if idx, ok := t.index[normalizeHeader(alias)]; ok {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
		}
	}
	return ""
}

// DetectFileType categorizes a table by its header signature. Bookings are
// checked before clients because both layouts carry a membership column.
func DetectFileType(t *Table) FileType {
	switch {
	case t.has("teacher", "instructor") && t.has("class date"):
		return FileBookings
	case t.has("first visit", "first visit class") || t.has("first visit date", "first visit at"):
		return FileClients
	case t.has("category") && t.has("item", "item name"):
		return FileSales
	}
	return FileUnknown
}

// ParseFile reads one CSV export, detects its layout, and returns its type
// alongside the parsed table. An unrecognized layout is the one structural
// failure: it errors instead of guessing.
func ParseFile(r io.Reader, name string) (FileType, *Table, error) {
	table, err := ReadCSV(r)
	if err != nil {
		return FileUnknown, nil, fmt.Errorf("%s: %w", name, err)
	}

	fileType := DetectFileType(table)
	if fileType == FileUnknown {
		return FileUnknown, nil, fmt.Errorf("%s: %w (headers: %s)",
			name, common.ErrUnknownLayout, strings.Join(table.Header, ", "))
	}

	slog.Debug("Detected file layout",
		"file", name,
		"type", fileType.String(),
		"rows", len(table.Rows))

	return fileType, table, nil
}

// Clients converts a new-client table to normalized records. No row is ever
// dropped; missing cells become zero values.
func Clients(t *Table) []model.ClientRecord {
	records := make([]model.ClientRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, model.ClientRecord{
			Email:          strings.ToLower(t.get(row, "email", "client email", "customer email")),
			FirstName:      t.get(row, "first name"),
			LastName:       t.get(row, "last name", "surname"),
			Phone:          t.get(row, "phone", "phone number", "mobile"),
			PaymentMethod:  t.get(row, "payment method"),
			MembershipUsed: strings.TrimSpace(t.get(row, "membership used", "membership")),
			FirstVisit:     CleanLabel(t.get(row, "first visit", "first visit class", "class name")),
			FirstVisitDate: dates.Format(t.get(row, "first visit date", "first visit at", "date")),
			Location:       t.get(row, "location", "first visit location", "studio"),
			HomeLocation:   t.get(row, "home location"),
		})
	}
	return records
}

// Bookings converts a bookings table to normalized records.
func Bookings(t *Table) []model.BookingRecord {
	records := make([]model.BookingRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, model.BookingRecord{
			SaleDate:       dates.Format(t.get(row, "sale date")),
			ClassName:      CleanLabel(t.get(row, "class name", "class")),
			ClassDate:      dates.Format(t.get(row, "class date")),
			Location:       t.get(row, "location", "studio"),
			Teacher:        t.get(row, "teacher", "instructor", "teacher name"),
			Email:          strings.ToLower(t.get(row, "customer email", "email", "client email")),
			PaymentMethod:  t.get(row, "payment method"),
			MembershipUsed: strings.TrimSpace(t.get(row, "membership used", "membership")),
			SaleValue:      ParseCurrency(t.get(row, "sale value", "value", "amount", "price")),
			Tax:            ParseCurrency(t.get(row, "tax", "vat")),
			Cancelled:      ParseFlag(t.get(row, "cancelled", "canceled")),
			LateCancelled:  ParseFlag(t.get(row, "late cancelled", "late cancel", "late canceled")),
			NoShow:         ParseFlag(t.get(row, "no show", "noshow")),
			SoldBy:         t.get(row, "sold by"),
			Refunded:       ParseFlag(t.get(row, "refunded")),
			HomeLocation:   t.get(row, "home location"),
		})
	}
	return records
}

// Sales converts a sales table to normalized records.
func Sales(t *Table) []model.SaleRecord {
	records := make([]model.SaleRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, model.SaleRecord{
			Category:      t.get(row, "category"),
			Item:          t.get(row, "item", "item name"),
			Date:          dates.Format(t.get(row, "date", "sale date")),
			SaleValue:     ParseCurrency(t.get(row, "sale value", "value", "amount", "total")),
			Tax:           ParseCurrency(t.get(row, "tax", "vat")),
			Refunded:      ParseFlag(t.get(row, "refunded")),
			PaymentMethod: t.get(row, "payment method"),
			PaymentStatus: t.get(row, "payment status", "status"),
			SoldBy:        t.get(row, "sold by"),
			PayingEmail:   strings.ToLower(t.get(row, "paying customer email", "payer email", "paying email")),
			PayingName:    t.get(row, "paying customer name", "payer name"),
			Email:         strings.ToLower(t.get(row, "customer email", "email")),
			CustomerName:  t.get(row, "customer name", "name"),
			Location:      t.get(row, "location", "studio"),
			Note:          t.get(row, "note", "notes"),
		})
	}
	return records
}
