package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/collection-engine/internal/domain"
)

// BillingService is what the HTTP layer needs from the engine.
type BillingService interface {
	CreateClient(ctx context.Context, req *domain.ClientRequest, user string) (*domain.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*domain.ClientSummary, error)
	ListClients(ctx context.Context, search string) ([]*domain.ClientSummary, error)
	UpdateClient(ctx context.Context, id uuid.UUID, req *domain.ClientRequest, user string) (*domain.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID, user string) error

	GenerateSchedule(ctx context.Context, req *domain.GenerateScheduleRequest, user string) (*domain.ScheduleResult, error)
	RecalculateSchedule(ctx context.Context, chargeID uuid.UUID, req *domain.RecalculateScheduleRequest, user string) (*domain.ScheduleResult, error)
	CreateSingleCharge(ctx context.Context, req *domain.SingleChargeRequest, user string) (*domain.Charge, error)
	GetCharge(ctx context.Context, id uuid.UUID) (*domain.ChargeDetail, error)
	ListCharges(ctx context.Context, filter domain.ChargeFilter) ([]*domain.Charge, error)
	CancelCharge(ctx context.Context, id uuid.UUID, user string) (*domain.Charge, error)
	DeleteCharge(ctx context.Context, id uuid.UUID, user string) error
	QuoteCharge(ctx context.Context, id uuid.UUID) (*domain.Quote, error)

	QuoteInstallment(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	EditDueDate(ctx context.Context, id uuid.UUID, dueDate time.Time, user string) (*domain.Installment, error)
	SetManualPenalty(ctx context.Context, id uuid.UUID, amount *decimal.Decimal, user string) (*domain.SettlementResult, error)

	ApplyPayment(ctx context.Context, req *domain.ApplyPaymentRequest) (*domain.SettlementResult, error)

	OutstandingBalance(ctx context.Context, scope domain.BalanceScope, id *uuid.UUID) (*domain.Balance, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	MonthlyReport(ctx context.Context, months int) ([]*domain.MonthlyRow, error)
	TopDebtors(ctx context.Context, limit int) ([]*domain.Debtor, error)

	GetSettings(ctx context.Context) (*domain.SettingsSnapshot, error)
	UpdateSettings(ctx context.Context, values map[string]string, user string) (*domain.SettingsSnapshot, error)
}
