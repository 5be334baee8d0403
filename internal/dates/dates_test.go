package dates

import (
	"reflect"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already canonical", "2024-01-05", "2024-01-05"},
		{"us slashes", "01/20/2024", "2024-01-20"},
		{"single digit slashes", "1/5/2024", "2024-01-05"},
		{"month name", "Jan 5, 2024", "2024-01-05"},
		{"full month name", "January 5, 2024", "2024-01-05"},
		{"datetime with time", "2024-01-05, 3:04 PM", "2024-01-05"},
		{"iso datetime", "2024-01-05T09:30:00", "2024-01-05"},
		{"surrounding whitespace", "  2024-01-05  ", "2024-01-05"},
		{"unparseable passes through", "not a date", "not a date"},
		{"empty passes through", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.raw); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	if _, ok := Parse(""); ok {
		t.Error("Parse(\"\") should fail")
	}
	if _, ok := Parse("garbage"); ok {
		t.Error("Parse(\"garbage\") should fail")
	}
	if _, ok := Parse("2024-01-05"); !ok {
		t.Error("Parse(\"2024-01-05\") should succeed")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"forward", "2024-01-20", "2024-01-05", 15},
		{"reversed is absolute", "2024-01-05", "2024-01-20", 15},
		{"same day", "2024-01-05", "2024-01-05", 0},
		{"invalid left", "nope", "2024-01-05", 0},
		{"invalid right", "2024-01-05", "nope", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsAfter(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"strictly after", "2024-01-06", "2024-01-05", true},
		{"before", "2024-01-04", "2024-01-05", false},
		{"equal is not after", "2024-01-05", "2024-01-05", false},
		{"invalid left", "nope", "2024-01-05", false},
		{"invalid right", "2024-01-05", "nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAfter(tt.a, tt.b); got != tt.want {
				t.Errorf("IsAfter(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMonthYear(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-01-05", "Jan 24"},
		{"2023-12-31", "Dec 23"},
		{"garbage", "Unknown"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		if got := MonthYear(tt.raw); got != tt.want {
			t.Errorf("MonthYear(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"friday buckets to previous sunday", "2024-01-05", "2023-12-31", true},
		{"sunday buckets to itself", "2023-12-31", "2023-12-31", true},
		{"saturday buckets back six days", "2024-01-06", "2023-12-31", true},
		{"next sunday starts a new week", "2024-01-07", "2024-01-07", true},
		{"unparseable", "nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WeekStart(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("WeekStart(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSortPeriodsDesc(t *testing.T) {
	periods := []string{"Jan 24", "Mar 24", "Unknown", "Dec 23", "Feb 24"}
	SortPeriodsDesc(periods)

	want := []string{"Mar 24", "Feb 24", "Jan 24", "Dec 23", "Unknown"}
	if !reflect.DeepEqual(periods, want) {
		t.Errorf("SortPeriodsDesc = %v, want %v", periods, want)
	}
}
