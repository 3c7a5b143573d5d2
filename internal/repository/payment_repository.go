package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/segyhp/collection-engine/internal/domain"
)

const paymentColumns = `id, cobranca_id, parcela_id, cliente_id, valor_pago, data_pagamento,
	forma_pagamento, observacoes, usuario, criado_em`

type paymentRepository struct {
	db sqlx.ExtContext
}

func NewPaymentRepository(db sqlx.ExtContext) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := r.db.Rebind(`
		INSERT INTO historico_pagamentos (id, cobranca_id, parcela_id, cliente_id, valor_pago, data_pagamento,
			forma_pagamento, observacoes, usuario, criado_em)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.ChargeID,
		payment.InstallmentID,
		payment.ClientID,
		payment.Amount,
		payment.PaidOn,
		payment.Method,
		payment.Note,
		payment.RecordedBy,
		payment.CreatedAt,
	)

	return mapError(err)
}

func (r *paymentRepository) ListByCharge(ctx context.Context, chargeID uuid.UUID) ([]*domain.Payment, error) {
	query := r.db.Rebind(`
		SELECT ` + paymentColumns + `
		FROM historico_pagamentos
		WHERE cobranca_id = ?
		ORDER BY data_pagamento, criado_em
	`)

	payments := []*domain.Payment{}
	if err := sqlx.SelectContext(ctx, r.db, &payments, query, chargeID); err != nil {
		return nil, mapError(err)
	}

	return payments, nil
}

func (r *paymentRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	query := r.db.Rebind(`
		SELECT ` + paymentColumns + `
		FROM historico_pagamentos
		WHERE data_pagamento >= ? AND data_pagamento <= ?
		ORDER BY data_pagamento, criado_em
	`)

	payments := []*domain.Payment{}
	if err := sqlx.SelectContext(ctx, r.db, &payments, query, from, to); err != nil {
		return nil, mapError(err)
	}

	return payments, nil
}

func (r *paymentRepository) TotalPaid(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT SUM(valor_pago) FROM historico_pagamentos`); err != nil {
		return decimal.Zero, mapError(err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *paymentRepository) DeleteByCharge(ctx context.Context, chargeID uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM historico_pagamentos WHERE cobranca_id = ?`)
	_, err := r.db.ExecContext(ctx, query, chargeID)
	return mapError(err)
}
