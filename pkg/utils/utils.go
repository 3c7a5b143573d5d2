package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

var (
	hundred = decimal.NewFromInt(100)
	thirty  = decimal.NewFromInt(30)
)

// DefaultEpsilon is one cent.
var DefaultEpsilon = decimal.New(1, -2)

// TotalWithRate returns principal * (1 + ratePercent/100).
func TotalWithRate(principal, ratePercent decimal.Decimal) decimal.Decimal {
	return principal.Add(Percent(principal, ratePercent))
}

// Percent returns amount * ratePercent / 100.
func Percent(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(hundred)
}

// MonthsFromDays converts a day count into fractional 30-day months.
func MonthsFromDays(days int) decimal.Decimal {
	return decimal.NewFromInt(int64(days)).Div(thirty)
}

// RoundCurrency rounds to 2 decimal places
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// CoversWithTolerance reports whether paid >= owed - epsilon.
func CoversWithTolerance(paid, owed, epsilon decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(owed.Sub(epsilon))
}

// ClampZero returns amount, or zero when amount is negative.
func ClampZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// DateOnly drops the time of day, keeping the calendar date as seen in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

// IsDateOverdue checks if dueDate is strictly before today
func IsDateOverdue(dueDate, today time.Time) bool {
	return DateOnly(today).After(DateOnly(dueDate))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// OnlyDigits strips everything but ASCII digits.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
