package fundamentals

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"market-pulse/internal/types"
)

var (
	billion = decimal.NewFromInt(1_000_000_000)
	hundred = decimal.NewFromInt(100)
)

// Alpha Vantage spells missing numbers in several ways
var absentMarkers = map[string]bool{
	"":     true,
	"NONE": true,
	"-":    true,
	"N/A":  true,
	"NULL": true,
}

// parse returns the decimal for s, or false for absent or non-numeric values
func parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if absentMarkers[strings.ToUpper(s)] {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func fromFloat(f *float64) (decimal.Decimal, bool) {
	if f == nil {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(*f), true
}

// Number renders d with two decimals
func Number(d decimal.Decimal, ok bool) string {
	if !ok {
		return types.NotAvailable
	}
	return d.StringFixed(2)
}

// Billions renders an absolute amount in billions, e.g. "1234.57B"
func Billions(d decimal.Decimal, ok bool) string {
	if !ok {
		return types.NotAvailable
	}
	return d.Div(billion).StringFixed(2) + "B"
}

// Percent renders a fraction as a percentage, e.g. 0.0045 -> "0.45%"
func Percent(d decimal.Decimal, ok bool) string {
	if !ok {
		return types.NotAvailable
	}
	return d.Mul(hundred).StringFixed(2) + "%"
}

// Text returns s trimmed, or N/A when absent
func Text(s string) string {
	s = strings.TrimSpace(s)
	if absentMarkers[strings.ToUpper(s)] {
		return types.NotAvailable
	}
	return s
}

// Truncate cuts s to limit runes and appends "...". Strings within the
// limit are returned unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
