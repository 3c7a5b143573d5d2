package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/collection-engine/internal/calendar"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/mocks"
	"github.com/segyhp/collection-engine/internal/penalty"
	"github.com/segyhp/collection-engine/internal/repository"
	customError "github.com/segyhp/collection-engine/pkg/errors"
)

func newMockService(repos *mocks.Repositories, g *mocks.MockGuard) (*BillingService, *mocks.UnitOfWork) {
	bound := repos.Bind()
	uow := &mocks.UnitOfWork{Repos: bound}
	svc := NewBillingService(bound, uow, penalty.StaticConfig(domain.DefaultSettings()), testConfig(), quietLogger()).
		WithClock(calendar.FixedClock(day(2024, 3, 1)))
	if g != nil {
		svc.WithGuard(g)
	}
	return svc, uow
}

func pendingInstallment(chargeID uuid.UUID, amount string) *domain.Installment {
	return &domain.Installment{
		ID:         uuid.New(),
		ChargeID:   chargeID,
		Number:     1,
		Amount:     decimal.RequireFromString(amount),
		PaidAmount: decimal.Zero,
		DueDate:    day(2024, 3, 4),
		Status:     domain.StatusPending,
	}
}

func TestApplyPayment_Guard(t *testing.T) {
	charge := &domain.Charge{
		ID:         uuid.New(),
		ClientID:   uuid.New(),
		Type:       domain.ChargeTypeInstallments,
		PaidAmount: decimal.Zero,
		Status:     domain.StatusPending,
	}
	inst := pendingInstallment(charge.ID, "50")

	tests := []struct {
		name       string
		setupMocks func(*mocks.Repositories, *mocks.MockGuard)
		code       string
		applied    string
		txCalls    int
	}{
		{
			name: "Failure - duplicate submission",
			setupMocks: func(repos *mocks.Repositories, g *mocks.MockGuard) {
				g.On("Claim", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
			},
			code: customError.ErrCodeDuplicateSubmission,
		},
		{
			name: "Success - guard unavailable does not block payment",
			setupMocks: func(repos *mocks.Repositories, g *mocks.MockGuard) {
				g.On("Claim", mock.Anything, mock.AnythingOfType("string")).Return(false, errors.New("connection refused"))
				expectInstallmentPayment(repos, charge, inst)
			},
			applied: "20",
			txCalls: 1,
		},
		{
			name: "Failure - claim released when the write fails",
			setupMocks: func(repos *mocks.Repositories, g *mocks.MockGuard) {
				g.On("Claim", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)
				g.On("Release", mock.Anything, mock.AnythingOfType("string")).Return(nil)
				repos.Installments.On("GetByID", mock.Anything, inst.ID).Return(inst, nil)
				repos.Charges.On("GetForUpdate", mock.Anything, charge.ID).Return(nil, errors.New("database connection error"))
			},
			code:    customError.ErrCodeDatabaseError,
			txCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := mocks.NewRepositories()
			g := &mocks.MockGuard{}
			tt.setupMocks(repos, g)
			svc, uow := newMockService(repos, g)

			result, err := svc.ApplyPayment(context.Background(), &domain.ApplyPaymentRequest{
				TargetID: inst.ID,
				Amount:   decimal.NewFromInt(20),
			})

			if tt.code != "" {
				assert.Equal(t, tt.code, customError.Code(err))
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.True(t, result.Applied.Equal(decimal.RequireFromString(tt.applied)))
			}
			assert.Equal(t, tt.txCalls, uow.Calls)
			repos.AssertExpectations(t)
			g.AssertExpectations(t)
		})
	}
}

func expectInstallmentPayment(repos *mocks.Repositories, charge *domain.Charge, inst *domain.Installment) {
	fresh := *inst
	repos.Installments.On("GetByID", mock.Anything, inst.ID).Return(&fresh, nil)
	repos.Charges.On("GetForUpdate", mock.Anything, charge.ID).Return(charge, nil)
	repos.Installments.On("Update", mock.Anything, mock.MatchedBy(func(i *domain.Installment) bool {
		return i.ID == inst.ID && i.Status == domain.StatusPending
	})).Return(nil)
	repos.Payments.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.InstallmentID.UUID == inst.ID && p.Amount.Equal(decimal.NewFromInt(20))
	})).Return(nil)
	repos.Charges.On("SetPaidAmount", mock.Anything, charge.ID, mock.AnythingOfType("decimal.Decimal")).Return(nil)
}

func TestApplyPayment_CascadeLostRace(t *testing.T) {
	charge := &domain.Charge{
		ID:         uuid.New(),
		Type:       domain.ChargeTypeInstallments,
		PaidAmount: decimal.Zero,
		Status:     domain.StatusPending,
	}
	inst := pendingInstallment(charge.ID, "50")
	paidSibling := pendingInstallment(charge.ID, "50")
	paidSibling.Number = 2
	paidSibling.Status = domain.StatusPaid

	repos := mocks.NewRepositories()
	repos.Installments.On("GetByID", mock.Anything, inst.ID).Return(inst, nil)
	repos.Charges.On("GetForUpdate", mock.Anything, charge.ID).Return(charge, nil)
	repos.Installments.On("Update", mock.Anything, mock.Anything).Return(nil)
	repos.Payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	repos.Charges.On("SetPaidAmount", mock.Anything, charge.ID, mock.Anything).Return(nil)
	repos.Installments.On("List", mock.Anything, domain.InstallmentFilter{ChargeID: &charge.ID}).
		Return([]*domain.Installment{
			{ID: inst.ID, Status: domain.StatusPaid},
			paidSibling,
		}, nil)
	// another settlement already moved the charge
	repos.Charges.On("Transition", mock.Anything, charge.ID, domain.StatusPending, domain.StatusPaid, mock.AnythingOfType("*time.Time")).
		Return(false, nil)

	svc, _ := newMockService(repos, nil)
	result, err := svc.ApplyPayment(context.Background(), &domain.ApplyPaymentRequest{
		TargetID: inst.ID,
		Amount:   decimal.NewFromInt(50),
		Date:     domain.NewDate(time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, result.Status)
	assert.False(t, result.ChargeSettled)
	repos.AssertExpectations(t)
}

func TestWithinTx_WrapsStoreErrors(t *testing.T) {
	repos := mocks.NewRepositories()
	svc, _ := newMockService(repos, nil)
	svc.uow = failingUnitOfWork{err: errors.New("begin failed")}

	err := svc.withinTx(context.Background(), func(context.Context, *repository.Repositories) error { return nil })
	assert.Equal(t, customError.ErrCodeDatabaseError, customError.Code(err))
}

type failingUnitOfWork struct {
	err error
}

func (f failingUnitOfWork) WithinTx(context.Context, repository.TxFunc) error {
	return f.err
}
