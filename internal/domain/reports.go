package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is the amount currently owed on a target, with its breakdown.
type Quote struct {
	TargetID  uuid.UUID       `json:"target_id"`
	Principal decimal.Decimal `json:"principal"`
	Penalty   decimal.Decimal `json:"penalty"`
	Interest  decimal.Decimal `json:"interest"`
	LateFee   decimal.Decimal `json:"late_fee"`
	Discount  decimal.Decimal `json:"discount"`
	Owed      decimal.Decimal `json:"owed"`
	Paid      decimal.Decimal `json:"paid"`
	Residual  decimal.Decimal `json:"residual"`
	DaysLate  int             `json:"days_late"`
}

// TargetKind tells which entity a settlement resolved to.
type TargetKind string

const (
	TargetInstallment TargetKind = "installment"
	TargetCharge      TargetKind = "charge"
)

// SettlementResult reports the outcome of ApplyPayment.
type SettlementResult struct {
	TargetID       uuid.UUID       `json:"target_id"`
	TargetKind     TargetKind      `json:"target_kind"`
	ChargeID       uuid.UUID       `json:"charge_id"`
	PaymentID      uuid.NullUUID   `json:"payment_id"`
	Status         Status          `json:"status"`
	Applied        decimal.Decimal `json:"applied"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Owed           decimal.Decimal `json:"owed"`
	Residual       decimal.Decimal `json:"residual"`
	Clamped        bool            `json:"clamped"`
	AlreadySettled bool            `json:"already_settled"`
	ChargeSettled  bool            `json:"charge_settled"`
}

// BalanceScope selects what OutstandingBalance aggregates over.
type BalanceScope string

const (
	ScopeClient    BalanceScope = "client"
	ScopeCharge    BalanceScope = "charge"
	ScopePortfolio BalanceScope = "portfolio"
)

// Balance is the amount still owed across a scope.
type Balance struct {
	Scope        BalanceScope    `json:"scope"`
	ScopeID      *uuid.UUID      `json:"scope_id,omitempty"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	Charges      int             `json:"charges"`
	Installments int             `json:"installments"`
}

// DashboardStats are the portfolio-wide headline numbers.
type DashboardStats struct {
	Clients           int             `json:"clients"`
	PendingCharges    int             `json:"pending_charges"`
	OverdueCharges    int             `json:"overdue_charges"`
	PaidCharges       int             `json:"paid_charges"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	Received          decimal.Decimal `json:"received"`
	ReceivedThisMonth decimal.Decimal `json:"received_this_month"`
}

// MonthlyRow summarizes the items falling due in one calendar month.
type MonthlyRow struct {
	Month       string          `json:"month"`
	Items       int             `json:"items"`
	Paid        int             `json:"paid"`
	Received    decimal.Decimal `json:"received"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// Debtor is a client ranked by outstanding balance.
type Debtor struct {
	ClientID    uuid.UUID       `json:"client_id"`
	Name        string          `json:"name"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Charges     int             `json:"charges"`
}

// DateFix is one installment moved off a blocked date.
type DateFix struct {
	InstallmentID uuid.UUID `json:"installment_id"`
	ChargeID      uuid.UUID `json:"charge_id"`
	Number        int       `json:"number"`
	From          Date      `json:"from"`
	To            Date      `json:"to"`
}

// StatusFix is a status that disagreed with the recorded money.
type StatusFix struct {
	InstallmentID uuid.NullUUID `json:"installment_id"`
	ChargeID      uuid.UUID     `json:"charge_id"`
	From          Status        `json:"from"`
	To            Status        `json:"to"`
}

// MaintenanceReport lists the changes a maintenance job found or made.
type MaintenanceReport struct {
	Applied     bool        `json:"applied"`
	DateFixes   []DateFix   `json:"date_fixes,omitempty"`
	StatusFixes []StatusFix `json:"status_fixes,omitempty"`
}
