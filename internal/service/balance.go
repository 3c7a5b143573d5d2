package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/penalty"
	customError "github.com/segyhp/collection-engine/pkg/errors"
	"github.com/segyhp/collection-engine/pkg/utils"
)

const (
	defaultReportMonths = 6
	maxReportMonths     = 24
	defaultDebtorLimit  = 10
)

// openPosition is what one open charge still owes.
type openPosition struct {
	charge       *domain.Charge
	outstanding  decimal.Decimal
	installments int
}

// installmentResidual is value plus manual penalty minus paid, never negative.
func installmentResidual(inst *domain.Installment) decimal.Decimal {
	return utils.ClampZero(inst.Amount.Add(inst.Penalty()).Sub(inst.PaidAmount))
}

// openPositions recomputes the outstanding amount of every Pending charge in
// scope from its Pending installments. Flat charges contribute the residual
// of their quote as of today, penalty and interest included.
func (s *BillingService) openPositions(ctx context.Context, clientID, chargeID *uuid.UUID) ([]*openPosition, error) {
	repos := s.repos
	settings := s.calculator.Settings(ctx)
	today := s.clock.Today()

	var charges []*domain.Charge
	if chargeID != nil {
		charge, err := repos.Charges.GetByID(ctx, *chargeID)
		if err != nil {
			return nil, lookupErr(err, func() *customError.BusinessError {
				return customError.WrapChargeNotFound(chargeID.String())
			})
		}
		if charge.IsOpen() {
			charges = append(charges, charge)
		}
	} else {
		var err error
		charges, err = repos.Charges.List(ctx, domain.ChargeFilter{ClientID: clientID, Status: domain.StatusPending})
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	installments, err := repos.Installments.List(ctx, domain.InstallmentFilter{
		ChargeID:    chargeID,
		ClientID:    clientID,
		Status:      domain.StatusPending,
		OpenCharges: true,
	})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	byCharge := make(map[uuid.UUID][]*domain.Installment)
	for _, inst := range installments {
		byCharge[inst.ChargeID] = append(byCharge[inst.ChargeID], inst)
	}

	positions := make([]*openPosition, 0, len(charges))
	for _, charge := range charges {
		pos := &openPosition{charge: charge, outstanding: decimal.Zero}
		if charge.HasInstallments() {
			for _, inst := range byCharge[charge.ID] {
				pos.outstanding = pos.outstanding.Add(installmentResidual(inst))
				pos.installments++
			}
		} else {
			pos.outstanding = penalty.ForCharge(charge, settings, today).Residual
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// OutstandingBalance sums what is still owed for a client, a charge or the
// whole portfolio. It never trusts the cached paid amount on the charge of
// an installment charge.
func (s *BillingService) OutstandingBalance(ctx context.Context, scope domain.BalanceScope, id *uuid.UUID) (*domain.Balance, error) {
	var clientID, chargeID *uuid.UUID
	switch scope {
	case domain.ScopePortfolio:
		id = nil
	case domain.ScopeClient:
		if id == nil {
			return nil, customError.WrapInvalidInput("client scope requires an id")
		}
		if _, err := s.repos.Clients.GetByID(ctx, *id); err != nil {
			return nil, lookupErr(err, func() *customError.BusinessError {
				return customError.WrapClientNotFound(id.String())
			})
		}
		clientID = id
	case domain.ScopeCharge:
		if id == nil {
			return nil, customError.WrapInvalidInput("charge scope requires an id")
		}
		chargeID = id
	default:
		return nil, customError.WrapInvalidInput("unknown balance scope " + string(scope))
	}

	positions, err := s.openPositions(ctx, clientID, chargeID)
	if err != nil {
		return nil, err
	}

	balance := &domain.Balance{Scope: scope, ScopeID: id, Outstanding: decimal.Zero}
	for _, pos := range positions {
		balance.Outstanding = balance.Outstanding.Add(pos.outstanding)
		balance.Charges++
		balance.Installments += pos.installments
	}
	return balance, nil
}

// DashboardStats gathers the portfolio headline numbers concurrently.
func (s *BillingService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	today := s.clock.Today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		stats     = &domain.DashboardStats{}
		positions []*openPosition
		paid      []*domain.Charge
		monthly   []*domain.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Clients, err = s.repos.Clients.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		positions, err = s.openPositions(gctx, nil, nil)
		return err
	})
	g.Go(func() (err error) {
		paid, err = s.repos.Charges.List(gctx, domain.ChargeFilter{Status: domain.StatusPaid})
		return err
	})
	g.Go(func() (err error) {
		stats.Received, err = s.repos.Payments.TotalPaid(gctx)
		return err
	})
	g.Go(func() (err error) {
		monthly, err = s.repos.Payments.ListBetween(gctx, monthStart, today)
		return err
	})
	if err := g.Wait(); err != nil {
		var be *customError.BusinessError
		if errors.As(err, &be) {
			return nil, err
		}
		return nil, customError.WrapDatabaseError(err)
	}

	stats.Outstanding = decimal.Zero
	for _, pos := range positions {
		stats.PendingCharges++
		stats.Outstanding = stats.Outstanding.Add(pos.outstanding)
		if utils.IsDateOverdue(pos.charge.DueDate, today) {
			stats.OverdueCharges++
		}
	}
	stats.PaidCharges = len(paid)
	stats.ReceivedThisMonth = decimal.Zero
	for _, p := range monthly {
		stats.ReceivedThisMonth = stats.ReceivedThisMonth.Add(p.Amount)
	}

	return stats, nil
}

// MonthlyReport groups installments and flat charges by due month over the
// last months, oldest first. Cancelled charges are left out.
func (s *BillingService) MonthlyReport(ctx context.Context, months int) ([]*domain.MonthlyRow, error) {
	if months <= 0 {
		months = defaultReportMonths
	}
	if months > maxReportMonths {
		months = maxReportMonths
	}

	today := s.clock.Today()
	from := time.Date(today.Year(), today.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, time.UTC)

	rows := make([]*domain.MonthlyRow, 0, months)
	index := make(map[string]*domain.MonthlyRow, months)
	for m := from; !m.After(to); m = m.AddDate(0, 1, 0) {
		row := &domain.MonthlyRow{Month: m.Format("2006-01"), Received: decimal.Zero, Outstanding: decimal.Zero}
		rows = append(rows, row)
		index[row.Month] = row
	}

	settings := s.calculator.Settings(ctx)
	installments, err := s.repos.Installments.List(ctx, domain.InstallmentFilter{DueFrom: &from, DueTo: &to})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	charges, err := s.repos.Charges.List(ctx, domain.ChargeFilter{Type: domain.ChargeTypeSingle})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	// installments of cancelled charges do not count
	cancelled := make(map[uuid.UUID]bool)
	cancelledCharges, err := s.repos.Charges.List(ctx, domain.ChargeFilter{Status: domain.StatusCancelled})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	for _, c := range cancelledCharges {
		cancelled[c.ID] = true
	}

	for _, inst := range installments {
		row, ok := index[inst.DueDate.Format("2006-01")]
		if !ok || cancelled[inst.ChargeID] {
			continue
		}
		row.Items++
		row.Received = row.Received.Add(inst.PaidAmount)
		if inst.IsPaid() {
			row.Paid++
		} else {
			row.Outstanding = row.Outstanding.Add(installmentResidual(inst))
		}
	}
	for _, charge := range charges {
		row, ok := index[charge.DueDate.Format("2006-01")]
		if !ok || charge.Status == domain.StatusCancelled {
			continue
		}
		row.Items++
		row.Received = row.Received.Add(charge.PaidAmount)
		if charge.Status == domain.StatusPaid {
			row.Paid++
		} else {
			row.Outstanding = row.Outstanding.Add(penalty.ForCharge(charge, settings, today).Residual)
		}
	}

	return rows, nil
}

// TopDebtors ranks clients by outstanding balance, largest first.
func (s *BillingService) TopDebtors(ctx context.Context, limit int) ([]*domain.Debtor, error) {
	if limit <= 0 {
		limit = defaultDebtorLimit
	}

	positions, err := s.openPositions(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	byClient := make(map[uuid.UUID]*domain.Debtor)
	for _, pos := range positions {
		if !pos.outstanding.IsPositive() {
			continue
		}
		d, ok := byClient[pos.charge.ClientID]
		if !ok {
			d = &domain.Debtor{ClientID: pos.charge.ClientID, Outstanding: decimal.Zero}
			byClient[pos.charge.ClientID] = d
		}
		d.Outstanding = d.Outstanding.Add(pos.outstanding)
		d.Charges++
	}

	debtors := make([]*domain.Debtor, 0, len(byClient))
	for _, d := range byClient {
		debtors = append(debtors, d)
	}
	sort.Slice(debtors, func(i, j int) bool {
		if c := debtors[i].Outstanding.Cmp(debtors[j].Outstanding); c != 0 {
			return c > 0
		}
		return debtors[i].ClientID.String() < debtors[j].ClientID.String()
	})
	if len(debtors) > limit {
		debtors = debtors[:limit]
	}

	for _, d := range debtors {
		client, err := s.repos.Clients.GetByID(ctx, d.ClientID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		d.Name = client.Name
	}
	return debtors, nil
}
