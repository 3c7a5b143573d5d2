package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/collection-engine/internal/domain"
)

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	// Create inserts a client. A duplicate document returns ErrDuplicate.
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)

	// List returns clients ordered by name, optionally filtered by a name/document search
	List(ctx context.Context, search string) ([]*domain.Client, error)

	// Update overwrites the editable fields of a client
	Update(ctx context.Context, client *domain.Client) error

	// Delete removes a client and, through foreign keys, everything it owns
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of clients
	Count(ctx context.Context) (int, error)
}

// ChargeRepository defines the interface for charge data operations
type ChargeRepository interface {
	// Create inserts a charge
	Create(ctx context.Context, charge *domain.Charge) error

	// GetByID retrieves a charge by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Charge, error)

	// GetForUpdate retrieves a charge and locks its row until the transaction ends
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Charge, error)

	// List returns charges matching the filter, newest due date first
	List(ctx context.Context, filter domain.ChargeFilter) ([]*domain.Charge, error)

	// Update overwrites amounts, dates and status of a charge
	Update(ctx context.Context, charge *domain.Charge) error

	// SetPaidAmount stores the cumulative amount paid on a charge
	SetPaidAmount(ctx context.Context, id uuid.UUID, paid decimal.Decimal) error

	// Transition moves a charge from one status to another. It reports false
	// when the charge was no longer in the from status.
	Transition(ctx context.Context, id uuid.UUID, from, to domain.Status, paidAt *time.Time) (bool, error)

	// Delete removes a charge with its installments and payments
	Delete(ctx context.Context, id uuid.UUID) error
}

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	// CreateBatch inserts the installments of one schedule
	CreateBatch(ctx context.Context, installments []*domain.Installment) error

	// GetByID retrieves an installment by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error)

	// List returns installments matching the filter ordered by charge and number
	List(ctx context.Context, filter domain.InstallmentFilter) ([]*domain.Installment, error)

	// EarliestPending returns the lowest-numbered Pending installment of a charge
	EarliestPending(ctx context.Context, chargeID uuid.UUID) (*domain.Installment, error)

	// Update overwrites paid amount, penalty, due date and status
	Update(ctx context.Context, installment *domain.Installment) error

	// DeleteByCharge removes every installment of a charge
	DeleteByCharge(ctx context.Context, chargeID uuid.UUID) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// ListByCharge retrieves all payments for a charge
	ListByCharge(ctx context.Context, chargeID uuid.UUID) ([]*domain.Payment, error)

	// ListBetween retrieves payments received in [from, to]
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error)

	// TotalPaid sums all recorded payments
	TotalPaid(ctx context.Context) (decimal.Decimal, error)

	// DeleteByCharge removes the payment history of a charge
	DeleteByCharge(ctx context.Context, chargeID uuid.UUID) error
}

// SettingsRepository defines the interface for configuration rows
type SettingsRepository interface {
	// All returns every stored setting
	All(ctx context.Context) ([]*domain.Setting, error)

	// Upsert inserts or replaces a setting
	Upsert(ctx context.Context, setting *domain.Setting) error
}

// NotificationRepository defines the interface for sent reminders
type NotificationRepository interface {
	// Create records a notification. It reports false when the same target
	// already got this kind of notification on that day.
	Create(ctx context.Context, notification *domain.Notification) (bool, error)

	// ListByClient returns a client's notifications, newest first
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Notification, error)

	// Delete removes a notification
	Delete(ctx context.Context, id uuid.UUID) error
}
