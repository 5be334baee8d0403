package ingest

import (
	"strconv"
	"strings"
)

// labelPrefixes are boilerplate prefixes stripped from class labels.
var labelPrefixes = []string{
	"Class - ",
	"Event - ",
}

// CleanLabel trims a free-text label and strips known boilerplate prefixes.
func CleanLabel(label string) string {
	label = strings.TrimSpace(label)
	for _, prefix := range labelPrefixes {
		if strings.HasPrefix(strings.ToUpper(label), strings.ToUpper(prefix)) {
			label = label[len(prefix):]
			break
		}
	}
	return label
}

// ParseCurrency coerces a currency-like string ("£45.00", "1,250.50") to a
// float by stripping non-numeric characters. Anything unparseable is 0.
func ParseCurrency(raw string) float64 {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return value
}

// ParseFlag interprets the "YES"/"NO" flag strings used by booking exports.
// Missing or unrecognized values are false.
func ParseFlag(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "YES", "Y", "TRUE":
		return true
	}
	return false
}
