// Package dates parses the heterogeneous date strings found in studio exports
// and derives the comparisons and bucket labels the pipeline needs. Every
// function is total: invalid input degrades to a safe default instead of
// failing, so a bad cell never aborts a run.
package dates

import (
	"sort"
	"strings"
	"time"
)

// Canonical is the date layout all records are normalized to.
const Canonical = "2006-01-02"

// layouts are tried in order when parsing raw values.
var layouts = []string{
	Canonical,
	"2006-01-02, 3:04 PM",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// Parse attempts to parse a raw date-or-datetime string.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Format reformats a raw date string to the canonical "YYYY-MM-DD" form.
// Unparseable input is returned unchanged rather than treated as an error;
// downstream comparisons on such values simply never match.
func Format(raw string) string {
	t, ok := Parse(raw)
	if !ok {
		return raw
	}
	return t.Format(Canonical)
}

// DaysBetween returns the absolute whole-day difference between two date
// strings, or 0 if either is unparseable.
func DaysBetween(a, b string) int {
	ta, okA := Parse(a)
	tb, okB := Parse(b)
	if !okA || !okB {
		return 0
	}
	days := int(ta.Sub(tb).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// IsAfter reports whether a is strictly after b. Returns false if either
// date is unparseable.
func IsAfter(a, b string) bool {
	ta, okA := Parse(a)
	tb, okB := Parse(b)
	if !okA || !okB {
		return false
	}
	return ta.After(tb)
}

// MonthYear derives the coarse "Mon YY" period label for a date string,
// or "Unknown" if it cannot be parsed.
func MonthYear(raw string) string {
	t, ok := Parse(raw)
	if !ok {
		return "Unknown"
	}
	return t.Format("Jan 06")
}

// WeekStart returns the Sunday-start week bucket for a date string as a
// canonical date, and whether the input was parseable.
func WeekStart(raw string) (string, bool) {
	t, ok := Parse(raw)
	if !ok {
		return "", false
	}
	sunday := t.AddDate(0, 0, -int(t.Weekday()))
	return sunday.Format(Canonical), true
}

// SortPeriodsDesc sorts "Mon YY" period labels reverse-chronologically in
// place. Labels that fail to parse sort after all valid ones.
func SortPeriodsDesc(periods []string) {
	sort.SliceStable(periods, func(i, j int) bool {
		ti, errI := time.Parse("Jan 06", periods[i])
		tj, errJ := time.Parse("Jan 06", periods[j])
		if errI != nil {
			return false
		}
		if errJ != nil {
			return true
		}
		return ti.After(tj)
	})
}
