package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/collection-engine/internal/domain"
)

type notificationRepository struct {
	db sqlx.ExtContext
}

func NewNotificationRepository(db sqlx.ExtContext) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO notificacoes (id, cliente_id, cobranca_id, parcela_id, alvo_id, tipo, canal,
			destinatario, mensagem, data_envio, criado_em)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (alvo_id, tipo, data_envio) DO NOTHING
	`)

	res, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.ClientID,
		n.ChargeID,
		n.InstallmentID,
		n.TargetID,
		n.Kind,
		n.Channel,
		n.Recipient,
		n.Message,
		n.SentOn,
		n.CreatedAt,
	)
	if err != nil {
		return false, mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *notificationRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Notification, error) {
	query := r.db.Rebind(`
		SELECT id, cliente_id, cobranca_id, parcela_id, alvo_id, tipo, canal, destinatario, mensagem,
			data_envio, criado_em
		FROM notificacoes
		WHERE cliente_id = ?
		ORDER BY data_envio DESC, criado_em DESC
	`)

	notifications := []*domain.Notification{}
	if err := sqlx.SelectContext(ctx, r.db, &notifications, query, clientID); err != nil {
		return nil, mapError(err)
	}

	return notifications, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.Rebind(`DELETE FROM notificacoes WHERE id = ?`)
	return expectAffected(r.db.ExecContext(ctx, query, id))
}
