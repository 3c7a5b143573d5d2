package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/collection-engine/internal/calendar"
	customError "github.com/segyhp/collection-engine/pkg/errors"
	"github.com/segyhp/collection-engine/pkg/utils"
)

func date(s string) time.Time {
	t, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dueDates(p *Plan) []string {
	out := make([]string, 0, len(p.Lines))
	for _, l := range p.Lines {
		out = append(out, l.DueDate.Format(utils.DateLayout))
	}
	return out
}

func TestBuild_Rate30(t *testing.T) {
	plans := MustParseRatePlans(DefaultRatePlans)

	plan, err := Build(decimal.NewFromInt(1000), decimal.NewFromInt(30), date("2024-03-04"), plans)

	require.NoError(t, err)
	require.Len(t, plan.Lines, 10)
	assert.True(t, plan.Total.Equal(decimal.NewFromInt(1300)))
	assert.True(t, plan.InstallmentValue.Equal(decimal.NewFromInt(130)))
	// 2024-03-10 is a Sunday
	assert.Equal(t, []string{
		"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08",
		"2024-03-09", "2024-03-11", "2024-03-12", "2024-03-13", "2024-03-14",
	}, dueDates(plan))
	for i, l := range plan.Lines {
		assert.Equal(t, i+1, l.Number)
	}
}

func TestBuild_CrossesYearEnd(t *testing.T) {
	plans := MustParseRatePlans(DefaultRatePlans)

	plan, err := Build(decimal.NewFromInt(500), decimal.NewFromInt(30), date("2024-12-23"), plans)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-12-23", "2024-12-26", "2024-12-27", "2024-12-28", "2024-12-30",
		"2025-01-02", "2025-01-03", "2025-01-04", "2025-01-06", "2025-01-07",
	}, dueDates(plan))
}

func TestBuild_Rate60(t *testing.T) {
	plans := MustParseRatePlans(DefaultRatePlans)

	plan, err := Build(decimal.NewFromInt(1000), decimal.NewFromInt(60), date("2024-05-06"), plans)

	require.NoError(t, err)
	require.Len(t, plan.Lines, 15)
	assert.True(t, plan.InstallmentValue.Equal(decimal.RequireFromString("106.67")))

	sum := decimal.Zero
	for _, l := range plan.Lines {
		sum = sum.Add(l.Amount)
	}
	tolerance := utils.DefaultEpsilon.Mul(decimal.NewFromInt(15))
	assert.True(t, sum.Sub(plan.Total).Abs().LessThanOrEqual(tolerance))
}

func TestBuild_Rejections(t *testing.T) {
	plans := MustParseRatePlans(DefaultRatePlans)

	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		firstDue  time.Time
		wantErr   error
	}{
		{"unsupported rate", decimal.NewFromInt(1000), decimal.NewFromInt(45), date("2024-03-04"), customError.ErrInvalidRate},
		{"zero rate", decimal.NewFromInt(1000), decimal.Zero, date("2024-03-04"), customError.ErrInvalidRate},
		{"sunday first due date", decimal.NewFromInt(1000), decimal.NewFromInt(30), date("2024-12-22"), customError.ErrBlockedDate},
		{"christmas first due date", decimal.NewFromInt(1000), decimal.NewFromInt(30), date("2024-12-25"), customError.ErrBlockedDate},
		{"zero principal", decimal.Zero, decimal.NewFromInt(30), date("2024-03-04"), customError.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Build(tt.principal, tt.rate, tt.firstDue, plans)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuild_NeverLandsOnBlockedDate(t *testing.T) {
	plans := MustParseRatePlans(DefaultRatePlans)
	start := date("2023-11-01")

	for d := 0; d < 120; d++ {
		first := start.AddDate(0, 0, d)
		if calendar.IsBlocked(first) {
			continue
		}
		for _, rate := range []int64{30, 60} {
			plan, err := Build(decimal.NewFromInt(777), decimal.NewFromInt(rate), first, plans)
			require.NoError(t, err)

			prev := time.Time{}
			for _, l := range plan.Lines {
				assert.False(t, calendar.IsBlocked(l.DueDate), "%s lands on blocked %s", first, l.DueDate)
				assert.True(t, l.DueDate.After(prev))
				prev = l.DueDate
			}
		}
	}
}

func TestParseRatePlans(t *testing.T) {
	plans, err := ParseRatePlans(" 60:15, 30:10 ,45:12")
	require.NoError(t, err)
	assert.Equal(t, []string{"30", "45", "60"}, plans.Rates())

	n, ok := plans.Count(decimal.RequireFromString("45.0"))
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	for _, bad := range []string{"", "30", "30:x", "x:10", "30:0", "30:10,30:12", "-5:3"} {
		_, err := ParseRatePlans(bad)
		assert.Error(t, err, bad)
	}
}
