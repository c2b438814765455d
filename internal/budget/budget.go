// Package budget prorates monthly budget amounts over calendar date ranges.
package budget

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted on every input surface.
const DateLayout = "2006-01-02"

// ErrInvalidKey is returned for year-month keys that are not six digits
// naming a real month.
var ErrInvalidKey = errors.New("invalid year-month key")

// MonthlyBudget is the budget figure for one calendar month.
type MonthlyBudget struct {
	YearMonth string `json:"year_month" yaml:"year_month" toml:"year_month"`
	Amount    int64  `json:"amount" yaml:"amount" toml:"amount"`
}

// Key formats a year and month as a "YYYYMM" key.
func Key(year int, month time.Month) string {
	return fmt.Sprintf("%04d%02d", year, int(month))
}

// ParseKey splits a "YYYYMM" key into year and month.
func ParseKey(key string) (int, time.Month, error) {
	if len(key) != 6 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	year, _ := strconv.Atoi(key[:4])
	month, _ := strconv.Atoi(key[4:])
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: %q: month out of range", ErrInvalidKey, key)
	}
	return year, time.Month(month), nil
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day strips time of day and location, keeping only the calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// DaysIn returns the number of days in the given month of the Gregorian
// calendar.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return Date(year, month+1, 0).Day()
}

// MonthRange returns the first and last day of the month named by key.
func MonthRange(key string) (time.Time, time.Time, error) {
	year, month, err := ParseKey(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return Date(year, month, 1), Date(year, month, DaysIn(year, month)), nil
}

// daysBetween counts whole days from a to b. Both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// Decimal converts an exact amount to a decimal rounded to places digits.
func Decimal(r *big.Rat, places int32) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, places)
}
