package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/collection-engine/internal/audit"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/repository"
	customError "github.com/segyhp/collection-engine/pkg/errors"
)

func clientNotFound(id uuid.UUID) func() *customError.BusinessError {
	return func() *customError.BusinessError {
		return customError.WrapClientNotFound(id.String())
	}
}

// CreateClient registers a debtor. Documents are unique when present.
func (s *BillingService) CreateClient(ctx context.Context, req *domain.ClientRequest, user string) (*domain.Client, error) {
	client, err := domain.NewClient(req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.repos.Clients.Create(ctx, client); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapClientDocumentExists(client.Document)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.record(ctx, user, audit.ActionCreate, audit.EntityClient, client.ID.String(), map[string]any{
		"nome":     client.Name,
		"cpf_cnpj": client.Document,
	})
	return client, nil
}

// GetClient returns a client with its open position.
func (s *BillingService) GetClient(ctx context.Context, id uuid.UUID) (*domain.ClientSummary, error) {
	client, err := s.repos.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, clientNotFound(id))
	}

	positions, err := s.openPositions(ctx, &id, nil)
	if err != nil {
		return nil, err
	}

	summary := &domain.ClientSummary{Client: client, Outstanding: decimal.Zero}
	for _, pos := range positions {
		summary.PendingCharges++
		summary.Outstanding = summary.Outstanding.Add(pos.outstanding)
	}
	return summary, nil
}

// ListClients returns clients ordered by name, each with its pending charge
// count and outstanding balance.
func (s *BillingService) ListClients(ctx context.Context, search string) ([]*domain.ClientSummary, error) {
	clients, err := s.repos.Clients.List(ctx, search)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	positions, err := s.openPositions(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.ClientSummary, 0, len(clients))
	byID := make(map[uuid.UUID]*domain.ClientSummary, len(clients))
	for _, c := range clients {
		summary := &domain.ClientSummary{Client: c, Outstanding: decimal.Zero}
		summaries = append(summaries, summary)
		byID[c.ID] = summary
	}
	for _, pos := range positions {
		if summary, ok := byID[pos.charge.ClientID]; ok {
			summary.PendingCharges++
			summary.Outstanding = summary.Outstanding.Add(pos.outstanding)
		}
	}
	return summaries, nil
}

// UpdateClient overwrites the editable fields of a client.
func (s *BillingService) UpdateClient(ctx context.Context, id uuid.UUID, req *domain.ClientRequest, user string) (*domain.Client, error) {
	client, err := s.repos.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, clientNotFound(id))
	}
	if err := client.Apply(req); err != nil {
		return nil, err
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.repos.Clients.Update(ctx, client); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, customError.WrapClientDocumentExists(client.Document)
		case errors.Is(err, repository.ErrNotFound):
			return nil, customError.WrapClientNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.record(ctx, user, audit.ActionUpdate, audit.EntityClient, id.String(), map[string]any{
		"nome":     client.Name,
		"cpf_cnpj": client.Document,
	})
	return client, nil
}

// DeleteClient removes a client with its charges, installments, payments
// and notifications.
func (s *BillingService) DeleteClient(ctx context.Context, id uuid.UUID, user string) error {
	if err := s.repos.Clients.Delete(ctx, id); err != nil {
		return lookupErr(err, clientNotFound(id))
	}

	s.logger.WithField("client_id", id).Warn("client deleted with its charges")
	s.record(ctx, user, audit.ActionDelete, audit.EntityClient, id.String(), nil)
	return nil
}
