package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/mocks"
	"github.com/segyhp/collection-engine/internal/notify"
)

func TestSendDueNotices(t *testing.T) {
	today := day(2024, 3, 11)
	env := newTestEnv(t, today)
	ctx := context.Background()
	client := env.client(t)

	for _, due := range []int{12, 5, 20} {
		_, err := env.svc.CreateSingleCharge(ctx, &domain.SingleChargeRequest{
			ClientID:    client.ID,
			Description: "Mensalidade",
			Principal:   dec("100"),
			DueDate:     domain.NewDate(day(2024, 3, due)),
		}, "ana")
		require.NoError(t, err)
	}

	notifier := &mocks.MockNotifier{}
	notifier.On("Send", mock.Anything, mock.MatchedBy(func(n notify.Notice) bool {
		return n.Kind == domain.NoticeOverdue && n.DaysLate == 6
	})).Return(nil).Once()
	notifier.On("Send", mock.Anything, mock.MatchedBy(func(n notify.Notice) bool {
		return n.Kind == domain.NoticeUpcoming && n.To == "maria@example.com"
	})).Return(nil).Once()
	env.svc.WithNotifier(notifier)

	report, err := env.svc.SendDueNotices(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 0, report.Skipped)
	notifier.AssertExpectations(t)

	// same day again: one notice per target, kind and day
	report, err = env.svc.SendDueNotices(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 2, report.Skipped)

	failing := &mocks.MockNotifier{}
	failing.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp unavailable"))
	env.svc.WithNotifier(failing)

	report, err = env.svc.SendDueNotices(ctx, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Failed)

	sent, err := env.repos.Notifications.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, sent, 2, "undelivered notices must not be kept")
}

func TestSendDueNotices_Disabled(t *testing.T) {
	env := newTestEnv(t, day(2024, 3, 11))
	ctx := context.Background()

	_, err := env.svc.UpdateSettings(ctx, map[string]string{domain.SettingAutoNotify: "false"}, "ana")
	require.NoError(t, err)

	notifier := &mocks.MockNotifier{}
	env.svc.WithNotifier(notifier)
	env.schedule50(t, env.client(t).ID)

	report, err := env.svc.SendDueNotices(ctx, day(2024, 3, 11))
	require.NoError(t, err)
	assert.Zero(t, report.Sent)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRealignBlockedDates(t *testing.T) {
	env := newTestEnv(t, day(2024, 3, 1))
	ctx := context.Background()
	sched := env.schedule50(t, env.client(t).ID)

	// a row written before the calendar rules were enforced
	inst := sched.Installments[2]
	inst.DueDate = day(2024, 3, 10)
	require.NoError(t, env.repos.Installments.Update(ctx, inst))

	dry, err := env.svc.RealignBlockedDates(ctx, false, "ops")
	require.NoError(t, err)
	require.Len(t, dry.DateFixes, 1)
	assert.False(t, dry.Applied)
	assert.Equal(t, "2024-03-10", dry.DateFixes[0].From.String())
	assert.Equal(t, "2024-03-11", dry.DateFixes[0].To.String())

	stored, err := env.repos.Installments.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", stored.DueDate.Format("2006-01-02"))

	applied, err := env.svc.RealignBlockedDates(ctx, true, "ops")
	require.NoError(t, err)
	assert.True(t, applied.Applied)

	stored, err = env.repos.Installments.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", stored.DueDate.Format("2006-01-02"))

	again, err := env.svc.RealignBlockedDates(ctx, false, "ops")
	require.NoError(t, err)
	assert.Empty(t, again.DateFixes)
}

func TestReconcileStatuses(t *testing.T) {
	env := newTestEnv(t, day(2024, 3, 1))
	ctx := context.Background()
	sched := env.schedule50(t, env.client(t).ID)

	// paid within a fraction of a cent but left Pending
	for _, inst := range sched.Installments {
		inst.PaidAmount = dec("49.995")
		require.NoError(t, env.repos.Installments.Update(ctx, inst))
	}

	dry, err := env.svc.ReconcileStatuses(ctx, false, "ops")
	require.NoError(t, err)
	require.Len(t, dry.StatusFixes, 16)
	last := dry.StatusFixes[15]
	assert.False(t, last.InstallmentID.Valid)
	assert.Equal(t, sched.Charge.ID, last.ChargeID)
	assert.Equal(t, domain.StatusPaid, last.To)

	charge, err := env.repos.Charges.GetByID(ctx, sched.Charge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, charge.Status)

	_, err = env.svc.ReconcileStatuses(ctx, true, "ops")
	require.NoError(t, err)

	detail, err := env.svc.GetCharge(ctx, sched.Charge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, detail.Charge.Status)
	for _, inst := range detail.Installments {
		assert.Equal(t, domain.StatusPaid, inst.Status)
	}
}
