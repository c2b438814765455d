// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/theirongolddev/prorata/internal/budget"
)

// AmountFormat controls how amounts are displayed.
type AmountFormat struct {
	Locale    string // BCP 47 tag, e.g. "en", "de-CH"
	Currency  string // optional prefix, e.g. "EUR"
	Precision int32  // fraction digits
}

// FormatAmount renders an exact amount rounded to f.Precision digits with
// locale-specific grouping. Digits come from the decimal string, never a
// float, so large totals keep every digit.
// e.g., 1234567.5 -> "1,234,567.50" (en), "1.234.567,50" (de)
func FormatAmount(r *big.Rat, f AmountFormat) string {
	tag, err := language.Parse(f.Locale)
	if err != nil {
		tag = language.English
	}
	group, point := separators(tag)

	s := budget.Decimal(r, f.Precision).StringFixed(f.Precision)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	s = sign + groupThousands(whole, group)
	if hasFrac {
		s += point + frac
	}
	if f.Currency != "" {
		return f.Currency + " " + s
	}
	return s
}

// separators reads the grouping and decimal marks for tag off a formatted
// sample: the group mark follows the first digit, the decimal mark the seventh.
func separators(tag language.Tag) (group, point string) {
	sample := message.NewPrinter(tag).Sprint(number.Decimal(1234567.5, number.Scale(1)))
	digits := 0
	for _, r := range sample {
		if unicode.IsDigit(r) {
			digits++
			continue
		}
		switch digits {
		case 1:
			group += string(r)
		case 7:
			point += string(r)
		}
	}
	if point == "" {
		point = "."
	}
	return group, point
}

// groupThousands inserts sep between groups of three in a run of digits.
func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}

	var result strings.Builder
	remainder := len(digits) % 3
	if remainder > 0 {
		result.WriteString(digits[:remainder])
	}
	for i := remainder; i < len(digits); i += 3 {
		if result.Len() > 0 {
			result.WriteString(sep)
		}
		result.WriteString(digits[i : i+3])
	}
	return result.String()
}

// FormatInt formats an integer budget figure with the same locale rules.
func FormatInt(n int64, f AmountFormat) string {
	return FormatAmount(new(big.Rat).SetInt64(n), AmountFormat{Locale: f.Locale, Currency: f.Currency})
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + groupThousands(s[1:], ",")
	}
	return groupThousands(s, ",")
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatMonth renders a YYYYMM key as "Apr 2020". Malformed keys are
// returned unchanged.
func FormatMonth(key string) string {
	year, month, err := budget.ParseKey(key)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%s %d", month.String()[:3], year)
}

// FormatDays formats a day count against the month length.
// e.g., (2, 31) -> "2/31"
func FormatDays(days, inMonth int) string {
	return fmt.Sprintf("%d/%d", days, inMonth)
}

// Share returns part/total as a float for percentage display, or 0 when
// total is zero.
func Share(part, total *big.Rat) float64 {
	if total == nil || total.Sign() == 0 || part == nil {
		return 0
	}
	f, _ := new(big.Rat).Quo(part, total).Float64()
	return f
}
