package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical date representation.
const DateLayout = "2006-01-02"

// dateLayouts is tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2/1/2006",
	"1/2/2006",
	"2006/1/2",
	"2-1-2006",
	"1-2-2006",
	"2006-1-2",
	"2/1/06",
	"1/2/06",
	"06/1/2",
	"2-1-06",
	"1-2-06",
	"06-1-2",
}

// ParseDate parses s against the known statement date layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate converts s to YYYY-MM-DD. Values that match no known layout
// are returned unchanged.
func NormalizeDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(DateLayout)
}

// NormalizeNumeric parses an amount, stripping thousands separators and whitespace.
// Empty strings, "n/a" and unparseable text are reported as absent rather than zero.
func NormalizeNumeric(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if isAbsentText(s) {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Join(strings.Fields(s), "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsNumeric reports whether s holds a usable amount.
func IsNumeric(s string) bool {
	_, ok := NormalizeNumeric(s)
	return ok
}

func isAbsentText(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "n/a")
}

// FormatAmount renders an amount with two fraction digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
