package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/collection-engine/internal/domain"
)

func TestOutstandingBalance_OverdueSingleCharge(t *testing.T) {
	// 31 days late: penalty 10.00 and interest 2.07 on top of the principal
	env := newTestEnv(t, day(2024, 4, 1))
	ctx := context.Background()
	client := env.client(t)

	charge, err := env.svc.CreateSingleCharge(ctx, &domain.SingleChargeRequest{
		ClientID:  client.ID,
		Principal: dec("100"),
		DueDate:   domain.NewDate(day(2024, 3, 1)),
	}, "ana")
	require.NoError(t, err)

	result := env.pay(t, charge.ID, "100")
	assert.Equal(t, domain.StatusPending, result.Status)
	assert.True(t, result.Residual.Equal(dec("12.07")), "residual %s", result.Residual)

	tests := []struct {
		name  string
		scope domain.BalanceScope
		id    *uuid.UUID
	}{
		{"charge", domain.ScopeCharge, &charge.ID},
		{"client", domain.ScopeClient, &client.ID},
		{"portfolio", domain.ScopePortfolio, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, err := env.svc.OutstandingBalance(ctx, tt.scope, tt.id)
			require.NoError(t, err)
			assert.True(t, balance.Outstanding.Equal(dec("12.07")), "outstanding %s", balance.Outstanding)
			assert.Equal(t, 1, balance.Charges)
		})
	}

	stats, err := env.svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Outstanding.Equal(dec("12.07")), "dashboard outstanding %s", stats.Outstanding)
	assert.Equal(t, 1, stats.OverdueCharges)

	debtors, err := env.svc.TopDebtors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, debtors, 1)
	assert.Equal(t, client.ID, debtors[0].ClientID)
	assert.True(t, debtors[0].Outstanding.Equal(dec("12.07")))

	summary, err := env.svc.GetClient(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, summary.Outstanding.Equal(dec("12.07")))

	rows, err := env.svc.MonthlyReport(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03", rows[0].Month)
	assert.True(t, rows[0].Outstanding.Equal(dec("12.07")), "monthly outstanding %s", rows[0].Outstanding)
	assert.True(t, rows[0].Received.Equal(dec("100")))
}
