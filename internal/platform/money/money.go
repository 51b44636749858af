// Package money provides the parsing and formatting rules for currency
// amounts and percentages used throughout the planner. Parsing never fails:
// malformed input degrades to a caller-supplied default so a half-filled
// form still produces an estimate.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts free-form currency text into an exact decimal.
// Currency symbols, thousands separators and surrounding whitespace are
// stripped before parsing. Empty or unparseable input returns def.
func ParseAmount(s string, def decimal.Decimal) decimal.Decimal {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return def
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return def
	}
	return d
}

// ParsePercent converts percent text into a decimal fraction. A trailing
// "%" is stripped. Values greater than 1 are treated as percent-scale and
// divided by 100; a value of exactly 1 means 100%. Unparseable input
// returns zero.
func ParsePercent(s string) decimal.Decimal {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return d.Div(decimal.NewFromInt(100))
	}
	return d
}

// Formatter renders amounts as display strings with a currency symbol.
type Formatter struct {
	symbol string
}

// NewFormatter returns a Formatter using the given currency symbol.
// An empty symbol defaults to "$".
func NewFormatter(symbol string) *Formatter {
	if symbol == "" {
		symbol = "$"
	}
	return &Formatter{symbol: symbol}
}

// Format rounds d half away from zero to two fraction digits and renders
// it with thousands separators and the currency symbol, e.g. "$1,234.50".
func (f *Formatter) Format(d decimal.Decimal) string {
	fixed := d.Round(2).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-2:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(f.symbol)
	b.WriteString(groupThousands(intPart))
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// FormatPercent renders percent text compactly for display: numeric input
// has trailing fractional zeros trimmed ("15.00" -> "15"), non-numeric
// input is returned trimmed as-is.
func FormatPercent(s string) string {
	trimmed := strings.TrimSpace(s)
	cleaned := strings.TrimSuffix(trimmed, "%")
	cleaned = strings.TrimSpace(cleaned)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return trimmed
	}
	return d.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
