package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.True(t, s.MonthlyInterestRate.Equal(decimal.NewFromInt(2)))
	assert.True(t, s.PenaltyRate.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 3, s.ToleranceDays)
	assert.Equal(t, 3, s.NoticeDays)
	assert.True(t, s.AutoNotify)
	assert.True(t, s.DailyLateFee.IsZero())
}

func TestParseSettings(t *testing.T) {
	t.Run("all keys present", func(t *testing.T) {
		s, warnings := ParseSettings(map[string]string{
			SettingMonthlyInterestRate: "1.5",
			SettingPenaltyRate:         "5",
			SettingToleranceDays:       "0",
			SettingNoticeDays:          "7",
			SettingAutoNotify:          "false",
			SettingDailyLateFee:        "2.50",
		})

		assert.Empty(t, warnings)
		assert.True(t, s.MonthlyInterestRate.Equal(decimal.RequireFromString("1.5")))
		assert.True(t, s.PenaltyRate.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, 0, s.ToleranceDays)
		assert.Equal(t, 7, s.NoticeDays)
		assert.False(t, s.AutoNotify)
		assert.True(t, s.DailyLateFee.Equal(decimal.RequireFromString("2.5")))
	})

	t.Run("malformed and missing keys fall back", func(t *testing.T) {
		s, warnings := ParseSettings(map[string]string{
			SettingMonthlyInterestRate: "abc",
			SettingPenaltyRate:         "-1",
			SettingToleranceDays:       "2",
			SettingNoticeDays:          "3",
			SettingAutoNotify:          "true",
		})

		require.Len(t, warnings, 3)
		keys := []string{warnings[0].Key, warnings[1].Key, warnings[2].Key}
		assert.ElementsMatch(t, []string{SettingMonthlyInterestRate, SettingPenaltyRate, SettingDailyLateFee}, keys)
		assert.True(t, s.MonthlyInterestRate.Equal(decimal.NewFromInt(2)))
		assert.True(t, s.PenaltyRate.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 2, s.ToleranceDays)
	})
}

func TestValidateSetting(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{SettingMonthlyInterestRate, "2.0", false},
		{SettingMonthlyInterestRate, "x", true},
		{SettingToleranceDays, "1.5", true},
		{SettingToleranceDays, "-2", true},
		{SettingAutoNotify, "yes", true},
		{SettingAutoNotify, "0", false},
		{"unknown", "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := ValidateSetting(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
