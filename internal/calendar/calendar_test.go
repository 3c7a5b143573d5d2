package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"monday", date(2024, 3, 4), false},
		{"saturday", date(2024, 3, 9), false},
		{"sunday", date(2024, 3, 10), true},
		{"christmas eve", date(2024, 12, 24), true},
		{"christmas", date(2024, 12, 25), true},
		{"new year's eve", date(2024, 12, 31), true},
		{"new year", date(2025, 1, 1), true},
		{"boxing day", date(2024, 12, 26), false},
		{"january second", date(2025, 1, 2), false},
		{"time of day is ignored", time.Date(2024, 12, 25, 23, 59, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBlocked(tt.date))
		})
	}
}

func TestNextAllowed(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected time.Time
	}{
		{"allowed date is returned unchanged", date(2024, 3, 4), date(2024, 3, 4)},
		{"sunday moves to monday", date(2024, 3, 10), date(2024, 3, 11)},
		{"christmas eve skips christmas", date(2024, 12, 24), date(2024, 12, 26)},
		{"new year's eve skips new year", date(2024, 12, 31), date(2025, 1, 2)},
		// 2022-12-31 is a Saturday: Dec 31, Jan 1 (also a Sunday) -> Jan 2.
		{"year end falling on a weekend", date(2022, 12, 31), date(2023, 1, 2)},
		// 2023-12-24 is a Sunday: 24, 25 blocked -> 26.
		{"christmas eve on a sunday", date(2023, 12, 24), date(2023, 12, 26)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextAllowed(tt.date)
			assert.Equal(t, tt.expected, got)
			assert.False(t, IsBlocked(got))
		})
	}
}

func TestNextAllowed_NeverReturnsBlockedDate(t *testing.T) {
	start := date(2020, 1, 1)
	for i := 0; i < 366*6; i++ {
		d := start.AddDate(0, 0, i)
		got := NextAllowed(d)
		assert.False(t, IsBlocked(got), "NextAllowed(%s) = %s is blocked", d.Format("2006-01-02"), got.Format("2006-01-02"))
		assert.False(t, got.Before(d))
	}
}

func TestFixedClock(t *testing.T) {
	clock := FixedClock(time.Date(2024, 5, 6, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, date(2024, 5, 6), clock.Today())
}
