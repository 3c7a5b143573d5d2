package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customError "github.com/segyhp/collection-engine/pkg/errors"
)

// Payment is an append-only record of money received.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ChargeID      uuid.UUID       `json:"charge_id" db:"cobranca_id"`
	InstallmentID uuid.NullUUID   `json:"installment_id" db:"parcela_id"`
	ClientID      uuid.UUID       `json:"client_id" db:"cliente_id"`
	Amount        decimal.Decimal `json:"amount" db:"valor_pago"`
	PaidOn        time.Time       `json:"paid_on" db:"data_pagamento"`
	Method        string          `json:"method,omitempty" db:"forma_pagamento"`
	Note          string          `json:"note,omitempty" db:"observacoes"`
	RecordedBy    string          `json:"recorded_by,omitempty" db:"usuario"`
	CreatedAt     time.Time       `json:"created_at" db:"criado_em"`
}

// NewPayment records the delta actually applied by one settlement.
func NewPayment(charge *Charge, installment *Installment, amount decimal.Decimal, paidOn time.Time, req *ApplyPaymentRequest, now time.Time) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidAmount(amount.String())
	}
	p := &Payment{
		ID:         uuid.New(),
		ChargeID:   charge.ID,
		ClientID:   charge.ClientID,
		Amount:     amount,
		PaidOn:     paidOn,
		Method:     req.Method,
		Note:       req.Note,
		RecordedBy: req.RecordedBy,
		CreatedAt:  now,
	}
	if installment != nil {
		p.InstallmentID = uuid.NullUUID{UUID: installment.ID, Valid: true}
	}
	return p, nil
}
