package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		a        time.Time
		b        time.Time
		expected int
	}{
		{
			name:     "same day",
			a:        baseDate,
			b:        baseDate,
			expected: 0,
		},
		{
			name:     "one day apart",
			a:        baseDate,
			b:        baseDate.AddDate(0, 0, 1),
			expected: 1,
		},
		{
			name:     "one year is 366 days across a leap year",
			a:        baseDate,
			b:        baseDate.AddDate(1, 0, 0),
			expected: 366,
		},
		{
			name:     "reversed order is negative",
			a:        baseDate.AddDate(0, 0, 10),
			b:        baseDate,
			expected: -10,
		},
		{
			name:     "time of day is ignored",
			a:        time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC),
			b:        time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DaysBetween(tt.a, tt.b)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("IST", 3600)
	stamped := time.Date(2024, 6, 15, 18, 30, 45, 123, loc)

	result := DateOnly(stamped)

	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), result)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedError bool
		expected      time.Time
	}{
		{
			name:     "valid date",
			input:    "2024-06-15",
			expected: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "wrong format",
			input:         "15/06/2024",
			expectedError: true,
		},
		{
			name:          "empty string",
			input:         "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	date := time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-06-15", FormatDate(date))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)
	nextDay := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}

func TestMinDate(t *testing.T) {
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, earlier, MinDate(earlier, later))
	assert.Equal(t, earlier, MinDate(later, earlier))
	assert.Equal(t, earlier, MinDate(earlier, earlier))
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		pct      decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "fifteen percent of ten thousand",
			amount:   decimal.NewFromInt(10000),
			pct:      decimal.RequireFromString("15"),
			expected: decimal.NewFromInt(1500),
		},
		{
			name:     "fractional daily rate",
			amount:   decimal.NewFromInt(10000),
			pct:      decimal.RequireFromString("0.07"),
			expected: decimal.NewFromInt(7),
		},
		{
			name:     "zero percent",
			amount:   decimal.NewFromInt(10000),
			pct:      decimal.Zero,
			expected: decimal.Zero,
		},
		{
			name:     "zero amount",
			amount:   decimal.Zero,
			pct:      decimal.RequireFromString("1.5"),
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PercentOf(tt.amount, tt.pct)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}
