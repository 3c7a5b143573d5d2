package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/segyhp/collection-engine/internal/domain"
)

const chargeColumns = `id, cliente_id, descricao, tipo_cobranca, valor_original, valor_total, valor_pago,
	desconto, taxa_juros, numero_parcelas, data_vencimento, data_pagamento, status, criado_em, atualizado_em`

type chargeRepository struct {
	db sqlx.ExtContext
}

func NewChargeRepository(db sqlx.ExtContext) ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) Create(ctx context.Context, charge *domain.Charge) error {
	query := r.db.Rebind(`
		INSERT INTO cobrancas (id, cliente_id, descricao, tipo_cobranca, valor_original, valor_total, valor_pago,
			desconto, taxa_juros, numero_parcelas, data_vencimento, data_pagamento, status, criado_em, atualizado_em)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		charge.ID,
		charge.ClientID,
		charge.Description,
		charge.Type,
		charge.OriginalAmount,
		charge.TotalAmount,
		charge.PaidAmount,
		charge.Discount,
		charge.InterestRate,
		charge.InstallmentCount,
		charge.DueDate,
		charge.PaidAt,
		charge.Status,
		charge.CreatedAt,
		charge.UpdatedAt,
	)

	return mapError(err)
}

func (r *chargeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Charge, error) {
	return r.get(ctx, r.db.Rebind(`SELECT `+chargeColumns+` FROM cobrancas WHERE id = ?`), id)
}

func (r *chargeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Charge, error) {
	return r.get(ctx, r.db.Rebind(forUpdate(r.db, `SELECT `+chargeColumns+` FROM cobrancas WHERE id = ?`)), id)
}

func (r *chargeRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Charge, error) {
	var charge domain.Charge
	if err := sqlx.GetContext(ctx, r.db, &charge, query, id); err != nil {
		return nil, mapError(err)
	}
	return &charge, nil
}

func (r *chargeRepository) List(ctx context.Context, filter domain.ChargeFilter) ([]*domain.Charge, error) {
	var (
		where []string
		args  []any
	)
	if filter.ClientID != nil {
		where = append(where, "cliente_id = ?")
		args = append(args, *filter.ClientID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		where = append(where, "tipo_cobranca = ?")
		args = append(args, filter.Type)
	}
	if filter.DueBefore != nil {
		where = append(where, "data_vencimento < ?")
		args = append(args, *filter.DueBefore)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + chargeColumns + ` FROM cobrancas`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY data_vencimento DESC, criado_em DESC, id")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	charges := []*domain.Charge{}
	if err := sqlx.SelectContext(ctx, r.db, &charges, r.db.Rebind(sb.String()), args...); err != nil {
		return nil, mapError(err)
	}

	return charges, nil
}

func (r *chargeRepository) Update(ctx context.Context, charge *domain.Charge) error {
	query := r.db.Rebind(`
		UPDATE cobrancas
		SET descricao = ?, valor_original = ?, valor_total = ?, valor_pago = ?, desconto = ?, taxa_juros = ?,
			numero_parcelas = ?, data_vencimento = ?, data_pagamento = ?, status = ?, atualizado_em = ?
		WHERE id = ?
	`)

	return expectAffected(r.db.ExecContext(ctx, query,
		charge.Description,
		charge.OriginalAmount,
		charge.TotalAmount,
		charge.PaidAmount,
		charge.Discount,
		charge.InterestRate,
		charge.InstallmentCount,
		charge.DueDate,
		charge.PaidAt,
		charge.Status,
		time.Now(),
		charge.ID,
	))
}

func (r *chargeRepository) SetPaidAmount(ctx context.Context, id uuid.UUID, paid decimal.Decimal) error {
	query := r.db.Rebind(`UPDATE cobrancas SET valor_pago = ?, atualizado_em = ? WHERE id = ?`)
	return expectAffected(r.db.ExecContext(ctx, query, paid, time.Now(), id))
}

func (r *chargeRepository) Transition(ctx context.Context, id uuid.UUID, from, to domain.Status, paidAt *time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE cobrancas
		SET status = ?, data_pagamento = ?, atualizado_em = ?
		WHERE id = ? AND status = ?
	`)

	res, err := r.db.ExecContext(ctx, query, to, paidAt, time.Now(), id, from)
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (r *chargeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM cobrancas WHERE id = ?`)
	return expectAffected(r.db.ExecContext(ctx, query, id))
}
