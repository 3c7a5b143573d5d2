package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/collection-engine/internal/domain"
)

const clientColumns = `id, nome, COALESCE(cpf_cnpj, '') AS cpf_cnpj, email, telefone, telefone_secundario,
	endereco, cidade, estado, cep, observacoes, empresa, criado_em, atualizado_em`

type clientRepository struct {
	db sqlx.ExtContext
}

func NewClientRepository(db sqlx.ExtContext) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := r.db.Rebind(`
		INSERT INTO clientes (id, nome, cpf_cnpj, email, telefone, telefone_secundario,
			endereco, cidade, estado, cep, observacoes, empresa, criado_em, atualizado_em)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		nullString(client.Document),
		client.Email,
		client.Phone,
		client.SecondaryPhone,
		client.Address,
		client.City,
		client.State,
		client.PostalCode,
		client.Notes,
		client.Company,
		client.CreatedAt,
		client.UpdatedAt,
	)

	return mapError(err)
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := r.db.Rebind(`SELECT ` + clientColumns + ` FROM clientes WHERE id = ?`)

	var client domain.Client
	if err := sqlx.GetContext(ctx, r.db, &client, query, id); err != nil {
		return nil, mapError(err)
	}

	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, search string) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clientes`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE LOWER(nome) LIKE ? OR cpf_cnpj LIKE ? OR LOWER(empresa) LIKE ?`
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY nome, id`

	clients := []*domain.Client{}
	if err := sqlx.SelectContext(ctx, r.db, &clients, r.db.Rebind(query), args...); err != nil {
		return nil, mapError(err)
	}

	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := r.db.Rebind(`
		UPDATE clientes
		SET nome = ?, cpf_cnpj = ?, email = ?, telefone = ?, telefone_secundario = ?, endereco = ?,
			cidade = ?, estado = ?, cep = ?, observacoes = ?, empresa = ?, atualizado_em = ?
		WHERE id = ?
	`)

	return expectAffected(r.db.ExecContext(ctx, query,
		client.Name,
		nullString(client.Document),
		client.Email,
		client.Phone,
		client.SecondaryPhone,
		client.Address,
		client.City,
		client.State,
		client.PostalCode,
		client.Notes,
		client.Company,
		client.UpdatedAt,
		client.ID,
	))
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM clientes WHERE id = ?`)
	return expectAffected(r.db.ExecContext(ctx, query, id))
}

func (r *clientRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM clientes`); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}
