// Package penalty computes what is currently owed on a charge or installment.
package penalty

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/calendar"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/pkg/utils"
)

// ConfigProvider supplies the current settings. Implementations fall back to
// defaults for missing keys; an error means the store itself was unreachable.
type ConfigProvider interface {
	Settings(ctx context.Context) (domain.Settings, error)
}

// StaticConfig serves fixed settings.
type StaticConfig domain.Settings

func (c StaticConfig) Settings(context.Context) (domain.Settings, error) {
	return domain.Settings(c), nil
}

// Calculator reads the current configuration on every call.
type Calculator struct {
	config ConfigProvider
	clock  calendar.Clock
	logger *logrus.Logger
}

func NewCalculator(config ConfigProvider, clock calendar.Clock, logger *logrus.Logger) *Calculator {
	return &Calculator{
		config: config,
		clock:  clock,
		logger: logger,
	}
}

// Today according to the calculator's clock.
func (c *Calculator) Today() time.Time {
	return c.clock.Today()
}

// Settings loads the current configuration, using defaults when the store fails.
func (c *Calculator) Settings(ctx context.Context) domain.Settings {
	settings, err := c.config.Settings(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("settings unavailable, using defaults")
		return domain.DefaultSettings()
	}
	return settings
}

// ChargeQuote prices a flat charge as of today.
func (c *Calculator) ChargeQuote(ctx context.Context, charge *domain.Charge) *domain.Quote {
	return ForCharge(charge, c.Settings(ctx), c.clock.Today())
}

// InstallmentQuote prices one installment as of today.
func (c *Calculator) InstallmentQuote(ctx context.Context, inst *domain.Installment) *domain.Quote {
	return ForInstallment(inst, c.Settings(ctx), c.clock.Today())
}

// ForCharge applies the percentage penalty and pro-rated monthly interest once
// the charge is more than ToleranceDays late. Paid charges accrue nothing.
func ForCharge(charge *domain.Charge, settings domain.Settings, today time.Time) *domain.Quote {
	q := &domain.Quote{
		TargetID:  charge.ID,
		Principal: charge.OriginalAmount,
		Penalty:   decimal.Zero,
		Interest:  decimal.Zero,
		LateFee:   decimal.Zero,
		Discount:  charge.Discount,
		Paid:      charge.PaidAmount,
	}

	if charge.Status != domain.StatusPaid && utils.IsDateOverdue(charge.DueDate, today) {
		daysLate := utils.DaysBetween(charge.DueDate, today)
		if daysLate > settings.ToleranceDays {
			q.DaysLate = daysLate
			q.Penalty = utils.RoundCurrency(utils.Percent(charge.OriginalAmount, settings.PenaltyRate))
			q.Interest = utils.RoundCurrency(
				utils.Percent(charge.OriginalAmount, settings.MonthlyInterestRate).Mul(utils.MonthsFromDays(daysLate)),
			)
		}
	}

	q.Owed = q.Principal.Add(q.Penalty).Add(q.Interest).Sub(q.Discount)
	q.Residual = utils.ClampZero(q.Owed.Sub(q.Paid))
	return q
}

// ForInstallment prices an installment at face value plus its manual penalty.
// Without a manual penalty, a positive DailyLateFee is charged per day late.
func ForInstallment(inst *domain.Installment, settings domain.Settings, today time.Time) *domain.Quote {
	q := &domain.Quote{
		TargetID:  inst.ID,
		Principal: inst.Amount,
		Penalty:   decimal.Zero,
		Interest:  decimal.Zero,
		LateFee:   decimal.Zero,
		Discount:  decimal.Zero,
		Paid:      inst.PaidAmount,
	}

	if inst.Status != domain.StatusPaid && utils.IsDateOverdue(inst.DueDate, today) {
		q.DaysLate = utils.DaysBetween(inst.DueDate, today)
	}

	switch {
	case inst.ManualPenalty.Valid:
		q.Penalty = inst.ManualPenalty.Decimal
	case settings.DailyLateFee.IsPositive() && q.DaysLate > 0:
		q.LateFee = utils.RoundCurrency(settings.DailyLateFee.Mul(decimal.NewFromInt(int64(q.DaysLate))))
	}

	q.Owed = q.Principal.Add(q.Penalty).Add(q.LateFee)
	q.Residual = utils.ClampZero(q.Owed.Sub(q.Paid))
	return q
}
