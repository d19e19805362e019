package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// DateOnly strips the time-of-day component, keeping year/month/day in UTC.
// All day-counting in the engine runs on dates normalised this way.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DaysBetween returns the number of whole days from a to b.
// Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// MinDate returns the earlier of two dates.
func MinDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// PercentOf applies a percentage expressed as e.g. 15.00 to an amount.
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}
