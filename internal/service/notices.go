package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/notify"
	"github.com/segyhp/collection-engine/internal/penalty"
	customError "github.com/segyhp/collection-engine/pkg/errors"
	"github.com/segyhp/collection-engine/pkg/utils"
)

// DueItems lists the Pending installments and flat charges of open charges
// that fall due on or before the given day.
func (s *BillingService) DueItems(ctx context.Context, until time.Time) ([]*domain.DueItem, error) {
	until = utils.DateOnly(until)

	installments, err := s.repos.Installments.List(ctx, domain.InstallmentFilter{
		Status:      domain.StatusPending,
		OpenCharges: true,
		DueTo:       &until,
	})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	dayAfter := until.AddDate(0, 0, 1)
	flat, err := s.repos.Charges.List(ctx, domain.ChargeFilter{
		Status:    domain.StatusPending,
		Type:      domain.ChargeTypeSingle,
		DueBefore: &dayAfter,
	})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	charges := make(map[uuid.UUID]*domain.Charge)
	clients := make(map[uuid.UUID]*domain.Client)
	loadClient := func(id uuid.UUID) (*domain.Client, error) {
		if c, ok := clients[id]; ok {
			return c, nil
		}
		c, err := s.repos.Clients.GetByID(ctx, id)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		clients[id] = c
		return c, nil
	}

	items := make([]*domain.DueItem, 0, len(installments)+len(flat))
	for _, inst := range installments {
		charge, ok := charges[inst.ChargeID]
		if !ok {
			if charge, err = s.repos.Charges.GetByID(ctx, inst.ChargeID); err != nil {
				return nil, customError.WrapDatabaseError(err)
			}
			charges[charge.ID] = charge
		}
		client, err := loadClient(charge.ClientID)
		if err != nil {
			return nil, err
		}
		items = append(items, &domain.DueItem{Client: client, Charge: charge, Installment: inst})
	}
	for _, charge := range flat {
		client, err := loadClient(charge.ClientID)
		if err != nil {
			return nil, err
		}
		items = append(items, &domain.DueItem{Client: client, Charge: charge})
	}

	return items, nil
}

// SendDueNotices reminds clients of items due within the notice window and
// of overdue items. Each target gets at most one notice of each kind a day.
// Nothing is sent when automatic sending is switched off.
func (s *BillingService) SendDueNotices(ctx context.Context, today time.Time) (*domain.NoticeReport, error) {
	if today.IsZero() {
		today = s.clock.Today()
	}
	today = utils.DateOnly(today)
	report := &domain.NoticeReport{Date: domain.NewDate(today)}

	settings := s.calculator.Settings(ctx)
	if !settings.AutoNotify {
		s.logger.Info("automatic notices disabled, skipping")
		return report, nil
	}

	items, err := s.DueItems(ctx, today.AddDate(0, 0, settings.NoticeDays))
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.sendNotice(ctx, item, settings, today, report)
	}

	s.logger.WithFields(logrus.Fields{
		"date":    today.Format(utils.DateLayout),
		"sent":    report.Sent,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("due notices processed")
	return report, nil
}

func (s *BillingService) sendNotice(ctx context.Context, item *domain.DueItem, settings domain.Settings, today time.Time, report *domain.NoticeReport) {
	notice := notify.Notice{
		Kind:        domain.NoticeUpcoming,
		To:          item.Client.Email,
		ClientName:  item.Client.Name,
		Description: item.Charge.Description,
		DueDate:     item.DueDate(),
	}
	var quote *domain.Quote
	if item.Installment != nil {
		notice.Number = item.Installment.Number
		quote = penalty.ForInstallment(item.Installment, settings, today)
	} else {
		quote = penalty.ForCharge(item.Charge, settings, today)
	}
	notice.Amount = quote.Residual
	if utils.IsDateOverdue(notice.DueDate, today) {
		notice.Kind = domain.NoticeOverdue
		notice.DaysLate = utils.DaysBetween(notice.DueDate, today)
	}

	_, body := notify.Compose(notice)
	n := &domain.Notification{
		ID:        uuid.New(),
		ClientID:  item.Client.ID,
		ChargeID:  item.Charge.ID,
		TargetID:  item.TargetID(),
		Kind:      notice.Kind,
		Channel:   s.notifier.Channel(),
		Recipient: notice.To,
		Message:   body,
		SentOn:    today,
		CreatedAt: time.Now().UTC(),
	}
	if item.Installment != nil {
		n.InstallmentID = uuid.NullUUID{UUID: item.Installment.ID, Valid: true}
	}

	entry := s.logger.WithFields(logrus.Fields{
		"target_id": n.TargetID,
		"client_id": n.ClientID,
		"kind":      n.Kind,
	})

	created, err := s.repos.Notifications.Create(ctx, n)
	if err != nil {
		entry.WithError(err).Error("failed to record notice")
		report.Failed++
		return
	}
	if !created {
		report.Skipped++
		return
	}

	if err := s.notifier.Send(ctx, notice); err != nil {
		entry.WithError(err).Warn("notice not delivered")
		// free the slot so a later run can retry
		if err := s.repos.Notifications.Delete(ctx, n.ID); err != nil {
			entry.WithError(err).Error("failed to remove undelivered notice")
		}
		report.Failed++
		return
	}
	report.Sent++
}
