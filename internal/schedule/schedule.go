// Package schedule turns a principal and a supported rate into a daily
// installment plan whose due dates never land on a blocked date.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/collection-engine/internal/calendar"
	customError "github.com/segyhp/collection-engine/pkg/errors"
	"github.com/segyhp/collection-engine/pkg/utils"
)

// Line is one generated installment before persistence.
type Line struct {
	Number  int
	Amount  decimal.Decimal
	DueDate time.Time
}

// Plan is the full computed schedule.
type Plan struct {
	Principal        decimal.Decimal
	Rate             decimal.Decimal
	Total            decimal.Decimal
	InstallmentValue decimal.Decimal
	Lines            []Line
}

// FirstDueDate of the plan.
func (p *Plan) FirstDueDate() time.Time {
	return p.Lines[0].DueDate
}

// Build computes the schedule. The first due date must not be blocked and the
// rate must be one of plans. Each later installment starts from the day after
// the previous due date and is moved forward while it lands on a blocked date.
func Build(principal, rate decimal.Decimal, firstDue time.Time, plans RatePlans) (*Plan, error) {
	if !principal.IsPositive() {
		return nil, customError.WrapInvalidAmount(principal.String())
	}
	count, ok := plans.Count(rate)
	if !ok {
		return nil, customError.WrapInvalidRate(rate.String(), plans.Rates())
	}

	firstDue = utils.DateOnly(firstDue)
	if calendar.IsBlocked(firstDue) {
		return nil, customError.WrapBlockedDate(
			firstDue.Format(utils.DateLayout),
			calendar.NextAllowed(firstDue).Format(utils.DateLayout),
		)
	}

	total := utils.TotalWithRate(principal, rate)
	value := utils.RoundCurrency(total.Div(decimal.NewFromInt(int64(count))))

	lines := make([]Line, 0, count)
	cursor := firstDue
	for i := 1; i <= count; i++ {
		due := calendar.NextAllowed(cursor)
		lines = append(lines, Line{
			Number:  i,
			Amount:  value,
			DueDate: due,
		})
		cursor = due.AddDate(0, 0, 1)
	}

	return &Plan{
		Principal:        principal,
		Rate:             rate,
		Total:            total,
		InstallmentValue: value,
		Lines:            lines,
	}, nil
}
