package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/repository"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context, search string) ([]*domain.Client, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockChargeRepository struct {
	mock.Mock
}

func (m *MockChargeRepository) Create(ctx context.Context, charge *domain.Charge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

func (m *MockChargeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Charge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Charge), args.Error(1)
}

func (m *MockChargeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Charge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Charge), args.Error(1)
}

func (m *MockChargeRepository) List(ctx context.Context, filter domain.ChargeFilter) ([]*domain.Charge, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Charge), args.Error(1)
}

func (m *MockChargeRepository) Update(ctx context.Context, charge *domain.Charge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

func (m *MockChargeRepository) SetPaidAmount(ctx context.Context, id uuid.UUID, paid decimal.Decimal) error {
	args := m.Called(ctx, id, paid)
	return args.Error(0)
}

func (m *MockChargeRepository) Transition(ctx context.Context, id uuid.UUID, from, to domain.Status, paidAt *time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockChargeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) CreateBatch(ctx context.Context, installments []*domain.Installment) error {
	args := m.Called(ctx, installments)
	return args.Error(0)
}

func (m *MockInstallmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) List(ctx context.Context, filter domain.InstallmentFilter) ([]*domain.Installment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) EarliestPending(ctx context.Context, chargeID uuid.UUID) (*domain.Installment, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) Update(ctx context.Context, installment *domain.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

func (m *MockInstallmentRepository) DeleteByCharge(ctx context.Context, chargeID uuid.UUID) error {
	args := m.Called(ctx, chargeID)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByCharge(ctx context.Context, chargeID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) TotalPaid(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) DeleteByCharge(ctx context.Context, chargeID uuid.UUID) error {
	args := m.Called(ctx, chargeID)
	return args.Error(0)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) All(ctx context.Context) ([]*domain.Setting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Setting), args.Error(1)
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) (bool, error) {
	args := m.Called(ctx, notification)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Notification, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Repositories bundles one mock per repository.
type Repositories struct {
	Clients       *MockClientRepository
	Charges       *MockChargeRepository
	Installments  *MockInstallmentRepository
	Payments      *MockPaymentRepository
	Settings      *MockSettingsRepository
	Notifications *MockNotificationRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Clients:       &MockClientRepository{},
		Charges:       &MockChargeRepository{},
		Installments:  &MockInstallmentRepository{},
		Payments:      &MockPaymentRepository{},
		Settings:      &MockSettingsRepository{},
		Notifications: &MockNotificationRepository{},
	}
}

// Bind returns the mocks behind the repository interfaces.
func (r *Repositories) Bind() *repository.Repositories {
	return &repository.Repositories{
		Clients:       r.Clients,
		Charges:       r.Charges,
		Installments:  r.Installments,
		Payments:      r.Payments,
		Settings:      r.Settings,
		Notifications: r.Notifications,
	}
}

// AssertExpectations checks every mock in the bundle.
func (r *Repositories) AssertExpectations(t mock.TestingT) {
	r.Clients.AssertExpectations(t)
	r.Charges.AssertExpectations(t)
	r.Installments.AssertExpectations(t)
	r.Payments.AssertExpectations(t)
	r.Settings.AssertExpectations(t)
	r.Notifications.AssertExpectations(t)
}

// UnitOfWork runs the callback directly against the bound mocks. Rollback
// is not simulated.
type UnitOfWork struct {
	Repos *repository.Repositories
	Calls int
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	u.Calls++
	return fn(ctx, u.Repos)
}
