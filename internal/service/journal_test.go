package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/collection-engine/internal/audit"
	"github.com/segyhp/collection-engine/internal/domain"
)

type recordingJournal struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (j *recordingJournal) Record(_ context.Context, e audit.Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

func TestMutations_RecordOperator(t *testing.T) {
	env := newTestEnv(t, day(2024, 3, 1))
	journal := &recordingJournal{}
	env.svc.WithJournal(journal)
	ctx := context.Background()

	client := env.client(t)
	sched := env.schedule50(t, client.ID)

	_, err := env.svc.EditDueDate(ctx, sched.Installments[0].ID, day(2024, 3, 2), "ana")
	require.NoError(t, err)

	five := dec("5")
	_, err = env.svc.SetManualPenalty(ctx, sched.Installments[1].ID, &five, "ana")
	require.NoError(t, err)

	_, err = env.svc.RecalculateSchedule(ctx, sched.Charge.ID, &domain.RecalculateScheduleRequest{
		Principal:    dec("1000"),
		RatePercent:  dec("30"),
		FirstDueDate: domain.NewDate(day(2024, 3, 4)),
	}, "ana")
	require.NoError(t, err)

	_, err = env.svc.CreateSingleCharge(ctx, &domain.SingleChargeRequest{
		ClientID:  client.ID,
		Principal: dec("100"),
		DueDate:   domain.NewDate(day(2024, 3, 10)),
	}, "ana")
	require.NoError(t, err)

	actions := make(map[string]string)
	for _, e := range journal.entries {
		actions[e.Action] = e.User
	}
	for _, action := range []string{
		audit.ActionCreate,
		audit.ActionGenerate,
		audit.ActionDueDate,
		audit.ActionPenalty,
		audit.ActionRecalculate,
	} {
		user, ok := actions[action]
		if assert.True(t, ok, "no %s entry", action) {
			assert.Equal(t, "ana", user, "user of %s", action)
		}
	}
	for _, e := range journal.entries {
		assert.NotEmpty(t, e.User, "%s %s", e.Action, e.EntityID)
	}
}
