package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRequest creates or updates a client.
type ClientRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Document       string `json:"document" validate:"omitempty,document"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"omitempty,max=30"`
	SecondaryPhone string `json:"secondary_phone" validate:"omitempty,max=30"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state" validate:"omitempty,max=2"`
	PostalCode     string `json:"postal_code"`
	Notes          string `json:"notes"`
	Company        string `json:"company"`
}

// GenerateScheduleRequest creates an installment charge.
type GenerateScheduleRequest struct {
	ClientID     uuid.UUID       `json:"client_id" validate:"required"`
	Description  string          `json:"description" validate:"max=500"`
	Principal    decimal.Decimal `json:"principal" validate:"decimal_gt=0"`
	RatePercent  decimal.Decimal `json:"rate_percent"`
	FirstDueDate Date            `json:"first_due_date" validate:"required"`
}

// RecalculateScheduleRequest replaces the schedule of an existing charge.
type RecalculateScheduleRequest struct {
	Principal    decimal.Decimal `json:"principal" validate:"decimal_gt=0"`
	RatePercent  decimal.Decimal `json:"rate_percent"`
	FirstDueDate Date            `json:"first_due_date" validate:"required"`
}

// SingleChargeRequest creates a flat charge with no installments.
type SingleChargeRequest struct {
	ClientID    uuid.UUID       `json:"client_id" validate:"required"`
	Description string          `json:"description" validate:"max=500"`
	Principal   decimal.Decimal `json:"principal" validate:"decimal_gt=0"`
	Discount    decimal.Decimal `json:"discount" validate:"decimal_gte=0"`
	DueDate     Date            `json:"due_date" validate:"required"`
}

// ApplyPaymentRequest settles money against an installment or charge.
// Amount is checked by the settlement itself so it can report InvalidAmount.
type ApplyPaymentRequest struct {
	TargetID   uuid.UUID       `json:"target_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
	Method     string          `json:"method" validate:"max=50"`
	Note       string          `json:"note" validate:"max=500"`
	RecordedBy string          `json:"recorded_by" validate:"max=100"`
}

// ManualPenaltyRequest sets or clears (null) an installment's manual penalty.
type ManualPenaltyRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// DueDateRequest moves an installment to a new due date.
type DueDateRequest struct {
	DueDate Date `json:"due_date" validate:"required"`
}

// ChargeFilter narrows ListCharges. Zero fields match everything.
type ChargeFilter struct {
	ClientID  *uuid.UUID
	Status    Status
	Type      ChargeType
	DueBefore *time.Time
	Limit     int
	Offset    int
}

// InstallmentFilter narrows installment listings. OpenCharges restricts the
// result to installments whose charge is still Pending.
type InstallmentFilter struct {
	ChargeID    *uuid.UUID
	ClientID    *uuid.UUID
	Status      Status
	OpenCharges bool
	DueFrom     *time.Time
	DueTo       *time.Time
}
