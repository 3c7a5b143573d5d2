package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/collection-engine/internal/domain"
)

const installmentColumns = `p.id, p.cobranca_id, p.numero_parcela, p.valor, p.valor_pago, p.multa_manual,
	p.data_vencimento, p.data_pagamento, p.status, p.criado_em, p.atualizado_em`

type installmentRepository struct {
	db sqlx.ExtContext
}

func NewInstallmentRepository(db sqlx.ExtContext) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) CreateBatch(ctx context.Context, installments []*domain.Installment) error {
	query := r.db.Rebind(`
		INSERT INTO parcelas (id, cobranca_id, numero_parcela, valor, valor_pago, multa_manual,
			data_vencimento, data_pagamento, status, criado_em, atualizado_em)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	for _, inst := range installments {
		_, err := r.db.ExecContext(ctx, query,
			inst.ID,
			inst.ChargeID,
			inst.Number,
			inst.Amount,
			inst.PaidAmount,
			inst.ManualPenalty,
			inst.DueDate,
			inst.PaidAt,
			inst.Status,
			inst.CreatedAt,
			inst.UpdatedAt,
		)
		if err != nil {
			return mapError(err)
		}
	}

	return nil
}

func (r *installmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	query := r.db.Rebind(`SELECT ` + installmentColumns + ` FROM parcelas p WHERE p.id = ?`)

	var inst domain.Installment
	if err := sqlx.GetContext(ctx, r.db, &inst, query, id); err != nil {
		return nil, mapError(err)
	}

	return &inst, nil
}

func (r *installmentRepository) List(ctx context.Context, filter domain.InstallmentFilter) ([]*domain.Installment, error) {
	var (
		where []string
		args  []any
		join  bool
	)
	if filter.ChargeID != nil {
		where = append(where, "p.cobranca_id = ?")
		args = append(args, *filter.ChargeID)
	}
	if filter.ClientID != nil {
		join = true
		where = append(where, "c.cliente_id = ?")
		args = append(args, *filter.ClientID)
	}
	if filter.Status != "" {
		where = append(where, "p.status = ?")
		args = append(args, filter.Status)
	}
	if filter.OpenCharges {
		join = true
		where = append(where, "c.status = ?")
		args = append(args, domain.StatusPending)
	}
	if filter.DueFrom != nil {
		where = append(where, "p.data_vencimento >= ?")
		args = append(args, *filter.DueFrom)
	}
	if filter.DueTo != nil {
		where = append(where, "p.data_vencimento <= ?")
		args = append(args, *filter.DueTo)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + installmentColumns + ` FROM parcelas p`)
	if join {
		sb.WriteString(` JOIN cobrancas c ON c.id = p.cobranca_id`)
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY p.cobranca_id, p.numero_parcela")

	installments := []*domain.Installment{}
	if err := sqlx.SelectContext(ctx, r.db, &installments, r.db.Rebind(sb.String()), args...); err != nil {
		return nil, mapError(err)
	}

	return installments, nil
}

func (r *installmentRepository) EarliestPending(ctx context.Context, chargeID uuid.UUID) (*domain.Installment, error) {
	query := r.db.Rebind(`
		SELECT ` + installmentColumns + `
		FROM parcelas p
		WHERE p.cobranca_id = ? AND p.status = ?
		ORDER BY p.numero_parcela
		LIMIT 1
	`)

	var inst domain.Installment
	if err := sqlx.GetContext(ctx, r.db, &inst, query, chargeID, domain.StatusPending); err != nil {
		return nil, mapError(err)
	}

	return &inst, nil
}

func (r *installmentRepository) Update(ctx context.Context, inst *domain.Installment) error {
	query := r.db.Rebind(`
		UPDATE parcelas
		SET valor = ?, valor_pago = ?, multa_manual = ?, data_vencimento = ?, data_pagamento = ?,
			status = ?, atualizado_em = ?
		WHERE id = ?
	`)

	return expectAffected(r.db.ExecContext(ctx, query,
		inst.Amount,
		inst.PaidAmount,
		inst.ManualPenalty,
		inst.DueDate,
		inst.PaidAt,
		inst.Status,
		time.Now(),
		inst.ID,
	))
}

func (r *installmentRepository) DeleteByCharge(ctx context.Context, chargeID uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM parcelas WHERE cobranca_id = ?`)
	_, err := r.db.ExecContext(ctx, query, chargeID)
	return mapError(err)
}
