package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is one scheduled sub-payment of a Charge.
type Installment struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	ChargeID      uuid.UUID           `json:"charge_id" db:"cobranca_id"`
	Number        int                 `json:"number" db:"numero_parcela"`
	Amount        decimal.Decimal     `json:"valor" db:"valor"`
	PaidAmount    decimal.Decimal     `json:"valor_pago" db:"valor_pago"`
	ManualPenalty decimal.NullDecimal `json:"multa_manual" db:"multa_manual"`
	DueDate       time.Time           `json:"due_date" db:"data_vencimento"`
	PaidAt        *time.Time          `json:"paid_at,omitempty" db:"data_pagamento"`
	Status        Status              `json:"status" db:"status"`
	CreatedAt     time.Time           `json:"created_at" db:"criado_em"`
	UpdatedAt     time.Time           `json:"updated_at" db:"atualizado_em"`
}

// IsPaid reports whether the installment reached its terminal state.
func (i *Installment) IsPaid() bool {
	return i.Status == StatusPaid
}

// Penalty returns the manual override, or zero when none is set.
func (i *Installment) Penalty() decimal.Decimal {
	if i.ManualPenalty.Valid {
		return i.ManualPenalty.Decimal
	}
	return decimal.Zero
}

// ScheduleResult is what schedule generation hands back to callers.
type ScheduleResult struct {
	Charge       *Charge        `json:"charge"`
	Installments []*Installment `json:"installments"`
}

// InstallmentIDs lists the generated installment IDs in sequence order.
func (r *ScheduleResult) InstallmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Installments))
	for _, inst := range r.Installments {
		ids = append(ids, inst.ID)
	}
	return ids
}
