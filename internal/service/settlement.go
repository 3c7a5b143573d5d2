package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/audit"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/guard"
	"github.com/segyhp/collection-engine/internal/penalty"
	"github.com/segyhp/collection-engine/internal/repository"
	customError "github.com/segyhp/collection-engine/pkg/errors"
	"github.com/segyhp/collection-engine/pkg/utils"
)

// settlement carries one ApplyPayment call through the transaction.
type settlement struct {
	req      *domain.ApplyPaymentRequest
	paidOn   time.Time
	today    time.Time
	settings domain.Settings
	epsilon  decimal.Decimal
	now      time.Time
}

// ApplyPayment applies money to an installment, or to a charge. A charge
// level payment on an installment charge goes to its earliest Pending
// installment. Amounts above what is owed are clamped and only the applied
// part is recorded. Targets that are already Paid are left untouched.
func (s *BillingService) ApplyPayment(ctx context.Context, req *domain.ApplyPaymentRequest) (*domain.SettlementResult, error) {
	// 1. Validate amount before any read or write
	if !req.Amount.IsPositive() {
		return nil, customError.WrapInvalidAmount(req.Amount.String())
	}

	st := &settlement{
		req:      req,
		today:    s.clock.Today(),
		settings: s.calculator.Settings(ctx),
		epsilon:  s.epsilon,
		now:      time.Now().UTC(),
	}
	st.paidOn = st.today
	if !req.Date.IsZero() {
		st.paidOn = utils.DateOnly(req.Date.Time)
	}

	// 2. Reject identical submissions within the guard window
	key := guard.PaymentKey(req.TargetID, req.Amount, st.paidOn)
	claimed := s.claim(ctx, key)
	if claimed == claimRejected {
		return nil, customError.WrapDuplicateSubmission(req.TargetID.String())
	}

	// 3. Apply under the charge row lock
	var result *domain.SettlementResult
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		result, err = st.apply(ctx, repos)
		return err
	})
	if err != nil {
		if claimed == claimHeld {
			s.release(ctx, key)
		}
		return nil, err
	}

	fields := logrus.Fields{
		"target_id":   result.TargetID,
		"target_kind": result.TargetKind,
		"charge_id":   result.ChargeID,
		"amount":      req.Amount.StringFixed(2),
	}
	if result.AlreadySettled {
		s.logger.WithFields(fields).Warn("payment ignored, target already paid")
		return result, nil
	}

	fields["applied"] = result.Applied.StringFixed(2)
	fields["status"] = result.Status
	fields["charge_settled"] = result.ChargeSettled
	s.logger.WithFields(fields).Info("payment applied")

	entity := audit.EntityInstallment
	if result.TargetKind == domain.TargetCharge {
		entity = audit.EntityCharge
	}
	s.record(ctx, req.RecordedBy, audit.ActionPayment, entity, result.TargetID.String(), map[string]any{
		"valor_pago":     result.Applied.String(),
		"data_pagamento": st.paidOn.Format(utils.DateLayout),
		"status":         result.Status,
		"cobranca_paga":  result.ChargeSettled,
	})

	return result, nil
}

type claimResult int

const (
	claimSkipped claimResult = iota
	claimHeld
	claimRejected
)

func (s *BillingService) claim(ctx context.Context, key string) claimResult {
	if s.guard == nil {
		return claimSkipped
	}
	ok, err := s.guard.Claim(ctx, key)
	if err != nil {
		s.logger.WithError(customError.WrapCacheError(err)).Warn("submission guard unavailable")
		return claimSkipped
	}
	if !ok {
		return claimRejected
	}
	return claimHeld
}

func (s *BillingService) release(ctx context.Context, key string) {
	if err := s.guard.Release(ctx, key); err != nil {
		s.logger.WithError(customError.WrapCacheError(err)).Warn("failed to release submission guard")
	}
}

func (st *settlement) apply(ctx context.Context, repos *repository.Repositories) (*domain.SettlementResult, error) {
	targetID := st.req.TargetID

	// Resolve the target: installment first, then charge
	kind := domain.TargetInstallment
	chargeID := targetID
	inst, err := repos.Installments.GetByID(ctx, targetID)
	switch {
	case err == nil:
		chargeID = inst.ChargeID
	case errors.Is(err, repository.ErrNotFound):
		kind = domain.TargetCharge
	default:
		return nil, customError.WrapDatabaseError(err)
	}

	charge, err := repos.Charges.GetForUpdate(ctx, chargeID)
	if err != nil {
		return nil, lookupErr(err, func() *customError.BusinessError {
			return customError.WrapTargetNotFound(targetID.String())
		})
	}
	if charge.Status == domain.StatusCancelled {
		return nil, customError.WrapChargeCancelled(charge.ID.String())
	}

	switch {
	case kind == domain.TargetInstallment:
		// re-read now that the charge is locked
		if inst, err = repos.Installments.GetByID(ctx, targetID); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		return st.applyToInstallment(ctx, repos, charge, inst)

	case charge.HasInstallments():
		inst, err = repos.Installments.EarliestPending(ctx, charge.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return settledCharge(charge), nil
		}
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		return st.applyToInstallment(ctx, repos, charge, inst)

	default:
		return st.applyToCharge(ctx, repos, charge)
	}
}

func (st *settlement) applyToInstallment(ctx context.Context, repos *repository.Repositories, charge *domain.Charge, inst *domain.Installment) (*domain.SettlementResult, error) {
	quote := penalty.ForInstallment(inst, st.settings, st.today)
	result := &domain.SettlementResult{
		TargetID:   inst.ID,
		TargetKind: domain.TargetInstallment,
		ChargeID:   charge.ID,
		Applied:    decimal.Zero,
		Owed:       quote.Owed,
	}

	if inst.IsPaid() {
		result.AlreadySettled = true
		result.Status = domain.StatusPaid
		result.TotalPaid = inst.PaidAmount
		result.Residual = decimal.Zero
		return result, nil
	}

	applied, clamped := clampToOwed(st.req.Amount, quote.Owed, inst.PaidAmount)
	inst.PaidAmount = inst.PaidAmount.Add(applied)
	if utils.CoversWithTolerance(inst.PaidAmount, quote.Owed, st.epsilon) {
		inst.Status = domain.StatusPaid
		inst.PaidAt = &st.paidOn
	}
	if err := repos.Installments.Update(ctx, inst); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	paymentID, err := st.recordPayment(ctx, repos, charge, inst, applied)
	if err != nil {
		return nil, err
	}

	result.PaymentID = paymentID
	result.Status = inst.Status
	result.Applied = applied
	result.Clamped = clamped
	result.TotalPaid = inst.PaidAmount
	result.Residual = utils.ClampZero(quote.Owed.Sub(inst.PaidAmount))

	if inst.IsPaid() {
		// siblings are re-read inside this transaction; the charge is settled as of today
		if result.ChargeSettled, err = cascade(ctx, repos, charge, st.today); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (st *settlement) applyToCharge(ctx context.Context, repos *repository.Repositories, charge *domain.Charge) (*domain.SettlementResult, error) {
	if charge.Status == domain.StatusPaid {
		return settledCharge(charge), nil
	}

	quote := penalty.ForCharge(charge, st.settings, st.today)
	applied, clamped := clampToOwed(st.req.Amount, quote.Owed, charge.PaidAmount)
	paymentID, err := st.recordPayment(ctx, repos, charge, nil, applied)
	if err != nil {
		return nil, err
	}

	result := &domain.SettlementResult{
		TargetID:   charge.ID,
		TargetKind: domain.TargetCharge,
		ChargeID:   charge.ID,
		PaymentID:  paymentID,
		Status:     domain.StatusPending,
		Applied:    applied,
		TotalPaid:  charge.PaidAmount,
		Owed:       quote.Owed,
		Residual:   utils.ClampZero(quote.Owed.Sub(charge.PaidAmount)),
		Clamped:    clamped,
	}

	if utils.CoversWithTolerance(charge.PaidAmount, quote.Owed, st.epsilon) {
		changed, err := repos.Charges.Transition(ctx, charge.ID, domain.StatusPending, domain.StatusPaid, &st.paidOn)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		result.Status = domain.StatusPaid
		result.ChargeSettled = changed
	}
	return result, nil
}

// recordPayment appends the payment row and accumulates the charge total.
// Nothing is written when applied is zero.
func (st *settlement) recordPayment(ctx context.Context, repos *repository.Repositories, charge *domain.Charge, inst *domain.Installment, applied decimal.Decimal) (uuid.NullUUID, error) {
	if !applied.IsPositive() {
		return uuid.NullUUID{}, nil
	}

	payment, err := domain.NewPayment(charge, inst, applied, st.paidOn, st.req, st.now)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	if err := repos.Payments.Create(ctx, payment); err != nil {
		return uuid.NullUUID{}, customError.WrapDatabaseError(err)
	}

	charge.PaidAmount = charge.PaidAmount.Add(applied)
	if err := repos.Charges.SetPaidAmount(ctx, charge.ID, charge.PaidAmount); err != nil {
		return uuid.NullUUID{}, customError.WrapDatabaseError(err)
	}

	return uuid.NullUUID{UUID: payment.ID, Valid: true}, nil
}

// clampToOwed caps amount at what is still owed.
func clampToOwed(amount, owed, paid decimal.Decimal) (decimal.Decimal, bool) {
	remaining := utils.ClampZero(owed.Sub(paid))
	if amount.GreaterThan(remaining) {
		return remaining, true
	}
	return amount, false
}

func settledCharge(charge *domain.Charge) *domain.SettlementResult {
	return &domain.SettlementResult{
		TargetID:       charge.ID,
		TargetKind:     domain.TargetCharge,
		ChargeID:       charge.ID,
		Status:         domain.StatusPaid,
		Applied:        decimal.Zero,
		TotalPaid:      charge.PaidAmount,
		Owed:           charge.TotalAmount,
		Residual:       decimal.Zero,
		AlreadySettled: true,
	}
}

// cascade re-reads every installment of a locked charge and marks the charge
// Paid on settledOn when all of them are. It reports whether this call made
// the change.
func cascade(ctx context.Context, repos *repository.Repositories, charge *domain.Charge, settledOn time.Time) (bool, error) {
	siblings, err := repos.Installments.List(ctx, domain.InstallmentFilter{ChargeID: &charge.ID})
	if err != nil {
		return false, customError.WrapDatabaseError(err)
	}

	to, ok := domain.ChargeTransition(charge, siblings)
	if !ok {
		return false, nil
	}

	changed, err := repos.Charges.Transition(ctx, charge.ID, domain.StatusPending, to, &settledOn)
	if err != nil {
		return false, customError.WrapDatabaseError(err)
	}
	if changed {
		charge.Status = to
		charge.PaidAt = &settledOn
	}
	return changed, nil
}
