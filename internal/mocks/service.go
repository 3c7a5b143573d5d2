package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/collection-engine/internal/domain"
)

type MockBillingService struct {
	mock.Mock
}

// NewMockBillingService creates a new mock billing service instance
func NewMockBillingService() *MockBillingService {
	return &MockBillingService{}
}

func (m *MockBillingService) CreateClient(ctx context.Context, req *domain.ClientRequest, user string) (*domain.Client, error) {
	args := m.Called(ctx, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockBillingService) GetClient(ctx context.Context, id uuid.UUID) (*domain.ClientSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientSummary), args.Error(1)
}

func (m *MockBillingService) ListClients(ctx context.Context, search string) ([]*domain.ClientSummary, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ClientSummary), args.Error(1)
}

func (m *MockBillingService) UpdateClient(ctx context.Context, id uuid.UUID, req *domain.ClientRequest, user string) (*domain.Client, error) {
	args := m.Called(ctx, id, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockBillingService) DeleteClient(ctx context.Context, id uuid.UUID, user string) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockBillingService) GenerateSchedule(ctx context.Context, req *domain.GenerateScheduleRequest, user string) (*domain.ScheduleResult, error) {
	args := m.Called(ctx, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleResult), args.Error(1)
}

func (m *MockBillingService) RecalculateSchedule(ctx context.Context, chargeID uuid.UUID, req *domain.RecalculateScheduleRequest, user string) (*domain.ScheduleResult, error) {
	args := m.Called(ctx, chargeID, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleResult), args.Error(1)
}

func (m *MockBillingService) CreateSingleCharge(ctx context.Context, req *domain.SingleChargeRequest, user string) (*domain.Charge, error) {
	args := m.Called(ctx, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Charge), args.Error(1)
}

func (m *MockBillingService) GetCharge(ctx context.Context, id uuid.UUID) (*domain.ChargeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChargeDetail), args.Error(1)
}

func (m *MockBillingService) ListCharges(ctx context.Context, filter domain.ChargeFilter) ([]*domain.Charge, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Charge), args.Error(1)
}

func (m *MockBillingService) CancelCharge(ctx context.Context, id uuid.UUID, user string) (*domain.Charge, error) {
	args := m.Called(ctx, id, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Charge), args.Error(1)
}

func (m *MockBillingService) DeleteCharge(ctx context.Context, id uuid.UUID, user string) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockBillingService) QuoteCharge(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockBillingService) QuoteInstallment(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockBillingService) EditDueDate(ctx context.Context, id uuid.UUID, dueDate time.Time, user string) (*domain.Installment, error) {
	args := m.Called(ctx, id, dueDate, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockBillingService) SetManualPenalty(ctx context.Context, id uuid.UUID, amount *decimal.Decimal, user string) (*domain.SettlementResult, error) {
	args := m.Called(ctx, id, amount, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementResult), args.Error(1)
}

func (m *MockBillingService) ApplyPayment(ctx context.Context, req *domain.ApplyPaymentRequest) (*domain.SettlementResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementResult), args.Error(1)
}

func (m *MockBillingService) OutstandingBalance(ctx context.Context, scope domain.BalanceScope, id *uuid.UUID) (*domain.Balance, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBillingService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *MockBillingService) MonthlyReport(ctx context.Context, months int) ([]*domain.MonthlyRow, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MonthlyRow), args.Error(1)
}

func (m *MockBillingService) TopDebtors(ctx context.Context, limit int) ([]*domain.Debtor, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Debtor), args.Error(1)
}

func (m *MockBillingService) GetSettings(ctx context.Context) (*domain.SettingsSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettingsSnapshot), args.Error(1)
}

func (m *MockBillingService) UpdateSettings(ctx context.Context, values map[string]string, user string) (*domain.SettingsSnapshot, error) {
	args := m.Called(ctx, values, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettingsSnapshot), args.Error(1)
}
