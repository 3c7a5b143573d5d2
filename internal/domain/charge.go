package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Charge is a debt owed by a client, either flat or split into installments
type Charge struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ClientID         uuid.UUID       `json:"client_id" db:"cliente_id"`
	Description      string          `json:"description" db:"descricao"`
	Type             ChargeType      `json:"type" db:"tipo_cobranca"`
	OriginalAmount   decimal.Decimal `json:"valor_original" db:"valor_original"`
	TotalAmount      decimal.Decimal `json:"valor_total" db:"valor_total"`
	PaidAmount       decimal.Decimal `json:"valor_pago" db:"valor_pago"`
	Discount         decimal.Decimal `json:"desconto" db:"desconto"`
	InterestRate     decimal.Decimal `json:"interest_rate" db:"taxa_juros"`
	InstallmentCount int             `json:"installment_count" db:"numero_parcelas"`
	DueDate          time.Time       `json:"due_date" db:"data_vencimento"`
	PaidAt           *time.Time      `json:"paid_at,omitempty" db:"data_pagamento"`
	Status           Status          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"criado_em"`
	UpdatedAt        time.Time       `json:"updated_at" db:"atualizado_em"`
}

// IsOpen reports whether the charge still accepts payments.
func (c *Charge) IsOpen() bool {
	return c.Status == StatusPending
}

// HasInstallments reports whether the charge is settled per installment.
func (c *Charge) HasInstallments() bool {
	return c.Type == ChargeTypeInstallments
}

// ChargeDetail is a charge with its installments and payment log.
type ChargeDetail struct {
	Charge       *Charge        `json:"charge"`
	Installments []*Installment `json:"installments"`
	Payments     []*Payment     `json:"payments"`
}
