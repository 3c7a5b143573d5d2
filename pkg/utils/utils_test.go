package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalWithRate(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		expected  decimal.Decimal
	}{
		{
			name:      "thirty percent plan",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromInt(30),
			expected:  decimal.NewFromInt(1300),
		},
		{
			name:      "sixty percent plan",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromInt(60),
			expected:  decimal.NewFromInt(1600),
		},
		{
			name:      "zero interest rate",
			principal: decimal.NewFromInt(5000),
			rate:      decimal.Zero,
			expected:  decimal.NewFromInt(5000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TotalWithRate(tt.principal, tt.rate)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestCoversWithTolerance(t *testing.T) {
	owed := decimal.RequireFromString("100.00")

	tests := []struct {
		name     string
		paid     decimal.Decimal
		expected bool
	}{
		{"exact", decimal.RequireFromString("100.00"), true},
		{"float drift below owed", decimal.NewFromFloat(33.34 + 66.66), true},
		{"one cent short is tolerated", decimal.RequireFromString("99.99"), true},
		{"two cents short", decimal.RequireFromString("99.98"), false},
		{"overpaid", decimal.RequireFromString("100.50"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoversWithTolerance(tt.paid, owed, DefaultEpsilon))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, 1, DaysBetween(start, time.Date(2024, 2, 1, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, DaysBetween(start, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(start, time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)))
}

func TestIsDateOverdue(t *testing.T) {
	due := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsDateOverdue(due, due))
	assert.False(t, IsDateOverdue(due, due.Add(23*time.Hour)))
	assert.True(t, IsDateOverdue(due, due.AddDate(0, 0, 1)))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2024-12-23 ")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("23/12/2024")
	assert.Error(t, err)
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "12345678909", OnlyDigits("123.456.789-09"))
	assert.Equal(t, "", OnlyDigits("abc"))
}

func TestMonthsFromDays(t *testing.T) {
	assert.True(t, MonthsFromDays(45).Equal(decimal.RequireFromString("1.5")))
}
