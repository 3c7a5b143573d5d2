package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/audit"
	"github.com/segyhp/collection-engine/internal/calendar"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/penalty"
	"github.com/segyhp/collection-engine/internal/repository"
	"github.com/segyhp/collection-engine/internal/schedule"
	customError "github.com/segyhp/collection-engine/pkg/errors"
	"github.com/segyhp/collection-engine/pkg/utils"
)

// GenerateSchedule creates an installment charge and its schedule atomically.
func (s *BillingService) GenerateSchedule(ctx context.Context, req *domain.GenerateScheduleRequest, user string) (*domain.ScheduleResult, error) {
	// 1. Validate rate and first due date before touching the store
	plan, err := schedule.Build(req.Principal, req.RatePercent, req.FirstDueDate.Time, s.plans)
	if err != nil {
		return nil, err
	}

	// 2. Build charge and installments
	now := time.Now().UTC()
	charge := &domain.Charge{
		ID:          uuid.New(),
		ClientID:    req.ClientID,
		Description: req.Description,
		Type:        domain.ChargeTypeInstallments,
		Status:      domain.StatusPending,
		PaidAmount:  decimal.Zero,
		Discount:    decimal.Zero,
		CreatedAt:   now,
	}
	applyPlan(charge, plan, now)
	installments := installmentsFromPlan(charge.ID, plan, now)

	// 3. Persist both in one transaction
	err = s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if _, err := repos.Clients.GetByID(ctx, req.ClientID); err != nil {
			return lookupErr(err, func() *customError.BusinessError {
				return customError.WrapClientNotFound(req.ClientID.String())
			})
		}
		if err := repos.Charges.Create(ctx, charge); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := repos.Installments.CreateBatch(ctx, installments); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"charge_id":    charge.ID,
		"client_id":    charge.ClientID,
		"total":        charge.TotalAmount.StringFixed(2),
		"installments": len(installments),
	}).Info("schedule generated")
	s.record(ctx, user, audit.ActionGenerate, audit.EntityCharge, charge.ID.String(), map[string]any{
		"valor_original":  charge.OriginalAmount.String(),
		"valor_total":     charge.TotalAmount.String(),
		"numero_parcelas": charge.InstallmentCount,
	})

	return &domain.ScheduleResult{Charge: charge, Installments: installments}, nil
}

// RecalculateSchedule discards the installments and payment history of a
// charge and generates a new schedule in their place.
func (s *BillingService) RecalculateSchedule(ctx context.Context, chargeID uuid.UUID, req *domain.RecalculateScheduleRequest, user string) (*domain.ScheduleResult, error) {
	plan, err := schedule.Build(req.Principal, req.RatePercent, req.FirstDueDate.Time, s.plans)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var result *domain.ScheduleResult
	err = s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		charge, err := repos.Charges.GetForUpdate(ctx, chargeID)
		if err != nil {
			return lookupErr(err, func() *customError.BusinessError {
				return customError.WrapChargeNotFound(chargeID.String())
			})
		}
		if charge.Status == domain.StatusCancelled {
			return customError.WrapChargeCancelled(chargeID.String())
		}

		if err := repos.Payments.DeleteByCharge(ctx, chargeID); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := repos.Installments.DeleteByCharge(ctx, chargeID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		charge.Type = domain.ChargeTypeInstallments
		charge.Status = domain.StatusPending
		charge.PaidAmount = decimal.Zero
		charge.PaidAt = nil
		applyPlan(charge, plan, now)
		if err := repos.Charges.Update(ctx, charge); err != nil {
			return customError.WrapDatabaseError(err)
		}

		installments := installmentsFromPlan(charge.ID, plan, now)
		if err := repos.Installments.CreateBatch(ctx, installments); err != nil {
			return customError.WrapDatabaseError(err)
		}

		result = &domain.ScheduleResult{Charge: charge, Installments: installments}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("charge_id", chargeID).Warn("schedule recalculated, payment history discarded")
	s.record(ctx, user, audit.ActionRecalculate, audit.EntityCharge, chargeID.String(), map[string]any{
		"valor_original":  result.Charge.OriginalAmount.String(),
		"valor_total":     result.Charge.TotalAmount.String(),
		"numero_parcelas": result.Charge.InstallmentCount,
	})

	return result, nil
}

func applyPlan(charge *domain.Charge, plan *schedule.Plan, now time.Time) {
	charge.OriginalAmount = plan.Principal
	charge.TotalAmount = plan.Total
	charge.InterestRate = plan.Rate
	charge.InstallmentCount = len(plan.Lines)
	charge.DueDate = plan.FirstDueDate()
	charge.UpdatedAt = now
}

func installmentsFromPlan(chargeID uuid.UUID, plan *schedule.Plan, now time.Time) []*domain.Installment {
	installments := make([]*domain.Installment, 0, len(plan.Lines))
	for _, line := range plan.Lines {
		installments = append(installments, &domain.Installment{
			ID:         uuid.New(),
			ChargeID:   chargeID,
			Number:     line.Number,
			Amount:     line.Amount,
			PaidAmount: decimal.Zero,
			DueDate:    line.DueDate,
			Status:     domain.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return installments
}

// CreateSingleCharge creates a flat charge priced by the automatic penalty rules.
func (s *BillingService) CreateSingleCharge(ctx context.Context, req *domain.SingleChargeRequest, user string) (*domain.Charge, error) {
	if !req.Principal.IsPositive() {
		return nil, customError.WrapInvalidAmount(req.Principal.String())
	}
	if req.Discount.IsNegative() || req.Discount.GreaterThan(req.Principal) {
		return nil, customError.WrapInvalidInput("discount must be between zero and the principal")
	}
	if req.DueDate.IsZero() {
		return nil, customError.WrapInvalidInput("due date is required")
	}

	now := time.Now().UTC()
	charge := &domain.Charge{
		ID:             uuid.New(),
		ClientID:       req.ClientID,
		Description:    req.Description,
		Type:           domain.ChargeTypeSingle,
		OriginalAmount: req.Principal,
		TotalAmount:    req.Principal.Sub(req.Discount),
		PaidAmount:     decimal.Zero,
		Discount:       req.Discount,
		InterestRate:   decimal.Zero,
		DueDate:        utils.DateOnly(req.DueDate.Time),
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if _, err := repos.Clients.GetByID(ctx, req.ClientID); err != nil {
			return lookupErr(err, func() *customError.BusinessError {
				return customError.WrapClientNotFound(req.ClientID.String())
			})
		}
		if err := repos.Charges.Create(ctx, charge); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, user, audit.ActionCreate, audit.EntityCharge, charge.ID.String(), map[string]any{
		"valor_original": charge.OriginalAmount.String(),
		"desconto":       charge.Discount.String(),
	})
	return charge, nil
}

// EditDueDate moves a Pending installment. The new date must not be blocked.
func (s *BillingService) EditDueDate(ctx context.Context, installmentID uuid.UUID, dueDate time.Time, user string) (*domain.Installment, error) {
	dueDate = utils.DateOnly(dueDate)
	if calendar.IsBlocked(dueDate) {
		return nil, customError.WrapBlockedDate(
			dueDate.Format(utils.DateLayout),
			calendar.NextAllowed(dueDate).Format(utils.DateLayout),
		)
	}

	var (
		inst    *domain.Installment
		oldDate time.Time
	)
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var charge *domain.Charge
		var err error
		inst, charge, err = lockInstallment(ctx, repos, installmentID)
		if err != nil {
			return err
		}
		if charge.Status == domain.StatusCancelled {
			return customError.WrapChargeCancelled(charge.ID.String())
		}
		if inst.IsPaid() {
			return customError.WrapInstallmentSettled(installmentID.String())
		}

		oldDate = inst.DueDate
		inst.DueDate = dueDate
		if err := repos.Installments.Update(ctx, inst); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if inst.Number == 1 {
			charge.DueDate = dueDate
			if err := repos.Charges.Update(ctx, charge); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, user, audit.ActionDueDate, audit.EntityInstallment, installmentID.String(), map[string]any{
		"data_vencimento_anterior": oldDate.Format(utils.DateLayout),
		"data_vencimento":          dueDate.Format(utils.DateLayout),
	})
	return inst, nil
}

// SetManualPenalty sets, or clears with nil, the penalty of a Pending
// installment. If the payments already recorded cover the new amount owed,
// the installment settles and the charge cascade runs.
func (s *BillingService) SetManualPenalty(ctx context.Context, installmentID uuid.UUID, amount *decimal.Decimal, user string) (*domain.SettlementResult, error) {
	if amount != nil && amount.IsNegative() {
		return nil, customError.WrapInvalidAmount(amount.String())
	}

	settings := s.calculator.Settings(ctx)
	today := s.clock.Today()

	var result *domain.SettlementResult
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		inst, charge, err := lockInstallment(ctx, repos, installmentID)
		if err != nil {
			return err
		}
		if charge.Status == domain.StatusCancelled {
			return customError.WrapChargeCancelled(charge.ID.String())
		}
		if inst.IsPaid() {
			return customError.WrapInstallmentSettled(installmentID.String())
		}

		if amount == nil {
			inst.ManualPenalty = decimal.NullDecimal{}
		} else {
			inst.ManualPenalty = decimal.NewNullDecimal(*amount)
		}

		quote := penalty.ForInstallment(inst, settings, today)
		if utils.CoversWithTolerance(inst.PaidAmount, quote.Owed, s.epsilon) {
			inst.Status = domain.StatusPaid
			inst.PaidAt = &today
		}
		if err := repos.Installments.Update(ctx, inst); err != nil {
			return customError.WrapDatabaseError(err)
		}

		result = &domain.SettlementResult{
			TargetID:   inst.ID,
			TargetKind: domain.TargetInstallment,
			ChargeID:   charge.ID,
			Status:     inst.Status,
			Applied:    decimal.Zero,
			TotalPaid:  inst.PaidAmount,
			Owed:       quote.Owed,
			Residual:   utils.ClampZero(quote.Owed.Sub(inst.PaidAmount)),
		}
		if inst.IsPaid() {
			result.ChargeSettled, err = cascade(ctx, repos, charge, today)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes := map[string]any{"multa_manual": nil}
	if amount != nil {
		changes["multa_manual"] = amount.String()
	}
	s.record(ctx, user, audit.ActionPenalty, audit.EntityInstallment, installmentID.String(), changes)
	return result, nil
}

// CancelCharge moves a Pending charge to Cancelled.
func (s *BillingService) CancelCharge(ctx context.Context, chargeID uuid.UUID, user string) (*domain.Charge, error) {
	var charge *domain.Charge
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		charge, err = repos.Charges.GetForUpdate(ctx, chargeID)
		if err != nil {
			return lookupErr(err, func() *customError.BusinessError {
				return customError.WrapChargeNotFound(chargeID.String())
			})
		}
		switch charge.Status {
		case domain.StatusCancelled:
			return customError.WrapChargeCancelled(chargeID.String())
		case domain.StatusPaid:
			return customError.WrapChargeSettled(chargeID.String())
		}

		changed, err := repos.Charges.Transition(ctx, chargeID, domain.StatusPending, domain.StatusCancelled, nil)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if !changed {
			return customError.WrapChargeSettled(chargeID.String())
		}
		charge.Status = domain.StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, user, audit.ActionCancel, audit.EntityCharge, chargeID.String(), nil)
	return charge, nil
}

// DeleteCharge removes a charge with its installments and payments.
func (s *BillingService) DeleteCharge(ctx context.Context, chargeID uuid.UUID, user string) error {
	if err := s.repos.Charges.Delete(ctx, chargeID); err != nil {
		return lookupErr(err, func() *customError.BusinessError {
			return customError.WrapChargeNotFound(chargeID.String())
		})
	}

	s.record(ctx, user, audit.ActionDelete, audit.EntityCharge, chargeID.String(), nil)
	return nil
}

// GetCharge returns a charge with its installments and payment log.
func (s *BillingService) GetCharge(ctx context.Context, chargeID uuid.UUID) (*domain.ChargeDetail, error) {
	charge, err := s.repos.Charges.GetByID(ctx, chargeID)
	if err != nil {
		return nil, lookupErr(err, func() *customError.BusinessError {
			return customError.WrapChargeNotFound(chargeID.String())
		})
	}

	installments, err := s.repos.Installments.List(ctx, domain.InstallmentFilter{ChargeID: &chargeID})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.repos.Payments.ListByCharge(ctx, chargeID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.ChargeDetail{Charge: charge, Installments: installments, Payments: payments}, nil
}

// ListCharges returns charges matching the filter.
func (s *BillingService) ListCharges(ctx context.Context, filter domain.ChargeFilter) ([]*domain.Charge, error) {
	charges, err := s.repos.Charges.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return charges, nil
}

// QuoteCharge prices a charge as of today. Installment charges are the sum
// of their installments.
func (s *BillingService) QuoteCharge(ctx context.Context, chargeID uuid.UUID) (*domain.Quote, error) {
	charge, err := s.repos.Charges.GetByID(ctx, chargeID)
	if err != nil {
		return nil, lookupErr(err, func() *customError.BusinessError {
			return customError.WrapChargeNotFound(chargeID.String())
		})
	}

	if !charge.HasInstallments() {
		return s.calculator.ChargeQuote(ctx, charge), nil
	}

	installments, err := s.repos.Installments.List(ctx, domain.InstallmentFilter{ChargeID: &chargeID})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	settings := s.calculator.Settings(ctx)
	today := s.clock.Today()
	total := &domain.Quote{TargetID: chargeID, Discount: charge.Discount}
	for _, inst := range installments {
		q := penalty.ForInstallment(inst, settings, today)
		total.Principal = total.Principal.Add(q.Principal)
		total.Penalty = total.Penalty.Add(q.Penalty)
		total.LateFee = total.LateFee.Add(q.LateFee)
		total.Owed = total.Owed.Add(q.Owed)
		total.Paid = total.Paid.Add(q.Paid)
		total.Residual = total.Residual.Add(q.Residual)
		if q.DaysLate > total.DaysLate {
			total.DaysLate = q.DaysLate
		}
	}
	return total, nil
}

// QuoteInstallment prices one installment as of today.
func (s *BillingService) QuoteInstallment(ctx context.Context, installmentID uuid.UUID) (*domain.Quote, error) {
	inst, err := s.repos.Installments.GetByID(ctx, installmentID)
	if err != nil {
		return nil, lookupErr(err, func() *customError.BusinessError {
			return customError.WrapInstallmentNotFound(installmentID.String())
		})
	}
	return s.calculator.InstallmentQuote(ctx, inst), nil
}

// lockInstallment locks the parent charge, then reads the installment under
// that lock.
func lockInstallment(ctx context.Context, repos *repository.Repositories, installmentID uuid.UUID) (*domain.Installment, *domain.Charge, error) {
	notFound := func() *customError.BusinessError {
		return customError.WrapInstallmentNotFound(installmentID.String())
	}

	inst, err := repos.Installments.GetByID(ctx, installmentID)
	if err != nil {
		return nil, nil, lookupErr(err, notFound)
	}
	charge, err := repos.Charges.GetForUpdate(ctx, inst.ChargeID)
	if err != nil {
		return nil, nil, lookupErr(err, notFound)
	}
	inst, err = repos.Installments.GetByID(ctx, installmentID)
	if err != nil {
		return nil, nil, lookupErr(err, notFound)
	}
	return inst, charge, nil
}
