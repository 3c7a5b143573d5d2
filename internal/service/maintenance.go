package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/audit"
	"github.com/segyhp/collection-engine/internal/calendar"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/repository"
	customError "github.com/segyhp/collection-engine/pkg/errors"
	"github.com/segyhp/collection-engine/pkg/utils"
)

// RealignBlockedDates finds Pending installments due on a blocked date and,
// when apply is set, moves each to the next allowed day.
func (s *BillingService) RealignBlockedDates(ctx context.Context, apply bool, user string) (*domain.MaintenanceReport, error) {
	installments, err := s.repos.Installments.List(ctx, domain.InstallmentFilter{
		Status:      domain.StatusPending,
		OpenCharges: true,
	})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	report := &domain.MaintenanceReport{Applied: apply}
	for _, inst := range installments {
		if !calendar.IsBlocked(inst.DueDate) {
			continue
		}
		report.DateFixes = append(report.DateFixes, domain.DateFix{
			InstallmentID: inst.ID,
			ChargeID:      inst.ChargeID,
			Number:        inst.Number,
			From:          domain.NewDate(inst.DueDate),
			To:            domain.NewDate(calendar.NextAllowed(inst.DueDate)),
		})
	}

	if !apply || len(report.DateFixes) == 0 {
		s.logger.WithField("found", len(report.DateFixes)).Info("blocked due dates checked")
		return report, nil
	}

	err = s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		for _, fix := range report.DateFixes {
			if err := realign(ctx, repos, fix); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, fix := range report.DateFixes {
		s.record(ctx, user, audit.ActionRealignDate, audit.EntityInstallment, fix.InstallmentID.String(), map[string]any{
			"data_vencimento_anterior": fix.From.String(),
			"data_vencimento":          fix.To.String(),
		})
	}
	s.logger.WithField("moved", len(report.DateFixes)).Info("blocked due dates realigned")
	return report, nil
}

func realign(ctx context.Context, repos *repository.Repositories, fix domain.DateFix) error {
	inst, charge, err := lockInstallment(ctx, repos, fix.InstallmentID)
	if err != nil {
		return err
	}
	if inst.IsPaid() || !utils.DateOnly(inst.DueDate).Equal(fix.From.Time) {
		return nil
	}

	inst.DueDate = fix.To.Time
	if err := repos.Installments.Update(ctx, inst); err != nil {
		return customError.WrapDatabaseError(err)
	}

	if utils.DateOnly(charge.DueDate).Equal(fix.From.Time) {
		charge.DueDate = fix.To.Time
		if err := repos.Charges.Update(ctx, charge); err != nil {
			return customError.WrapDatabaseError(err)
		}
	}
	return nil
}

// ReconcileStatuses finds Pending installments whose recorded payments
// already cover value plus manual penalty within the settlement epsilon, and
// open installment charges whose installments are all Paid. With apply set
// it fixes them, running the charge cascade in the same transaction.
func (s *BillingService) ReconcileStatuses(ctx context.Context, apply bool, user string) (*domain.MaintenanceReport, error) {
	charges, err := s.repos.Charges.List(ctx, domain.ChargeFilter{
		Status: domain.StatusPending,
		Type:   domain.ChargeTypeInstallments,
	})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	installments, err := s.repos.Installments.List(ctx, domain.InstallmentFilter{OpenCharges: true})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	byCharge := make(map[uuid.UUID][]*domain.Installment)
	for _, inst := range installments {
		byCharge[inst.ChargeID] = append(byCharge[inst.ChargeID], inst)
	}

	report := &domain.MaintenanceReport{Applied: apply}
	var affected []*domain.Charge
	for _, charge := range charges {
		fixes := s.reconcileCharge(charge, byCharge[charge.ID])
		if len(fixes) > 0 {
			report.StatusFixes = append(report.StatusFixes, fixes...)
			affected = append(affected, charge)
		}
	}

	if !apply || len(affected) == 0 {
		s.logger.WithField("found", len(report.StatusFixes)).Info("statuses checked")
		return report, nil
	}

	today := s.clock.Today()
	err = s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		for _, c := range affected {
			if err := s.settleCovered(ctx, repos, c.ID, today); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, fix := range report.StatusFixes {
		entity, id := audit.EntityCharge, fix.ChargeID
		if fix.InstallmentID.Valid {
			entity, id = audit.EntityInstallment, fix.InstallmentID.UUID
		}
		s.record(ctx, user, audit.ActionReconcile, entity, id.String(), map[string]any{
			"status_anterior": fix.From,
			"status":          fix.To,
		})
	}
	s.logger.WithFields(logrus.Fields{
		"fixes":   len(report.StatusFixes),
		"charges": len(affected),
	}).Info("statuses reconciled")
	return report, nil
}

// reconcileCharge lists the status changes one charge needs, without writing.
func (s *BillingService) reconcileCharge(charge *domain.Charge, installments []*domain.Installment) []domain.StatusFix {
	var fixes []domain.StatusFix
	projected := make([]*domain.Installment, 0, len(installments))
	for _, inst := range installments {
		if !inst.IsPaid() && s.covered(inst) {
			fixes = append(fixes, domain.StatusFix{
				InstallmentID: uuid.NullUUID{UUID: inst.ID, Valid: true},
				ChargeID:      charge.ID,
				From:          inst.Status,
				To:            domain.StatusPaid,
			})
			paid := *inst
			paid.Status = domain.StatusPaid
			inst = &paid
		}
		projected = append(projected, inst)
	}

	if to, ok := domain.ChargeTransition(charge, projected); ok {
		fixes = append(fixes, domain.StatusFix{ChargeID: charge.ID, From: charge.Status, To: to})
	}
	return fixes
}

func (s *BillingService) covered(inst *domain.Installment) bool {
	return utils.CoversWithTolerance(inst.PaidAmount, inst.Amount.Add(inst.Penalty()), s.epsilon)
}

// settleCovered re-reads a charge under lock and settles what is still covered.
func (s *BillingService) settleCovered(ctx context.Context, repos *repository.Repositories, chargeID uuid.UUID, today time.Time) error {
	charge, err := repos.Charges.GetForUpdate(ctx, chargeID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if !charge.IsOpen() {
		return nil
	}

	installments, err := repos.Installments.List(ctx, domain.InstallmentFilter{ChargeID: &chargeID})
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	for _, inst := range installments {
		if inst.IsPaid() || !s.covered(inst) {
			continue
		}
		inst.Status = domain.StatusPaid
		inst.PaidAt = &today
		if err := repos.Installments.Update(ctx, inst); err != nil {
			return customError.WrapDatabaseError(err)
		}
	}

	_, err = cascade(ctx, repos, charge, today)
	return err
}
