package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultRatePlans maps rate 30 to 10 daily installments and 60 to 15.
const DefaultRatePlans = "30:10,60:15"

// RatePlan ties a supported rate percent to its installment count.
type RatePlan struct {
	Rate         decimal.Decimal
	Installments int
}

// RatePlans is the closed set of supported rates.
type RatePlans []RatePlan

// ParseRatePlans reads "rate:count" pairs separated by commas.
func ParseRatePlans(s string) (RatePlans, error) {
	var plans RatePlans
	seen := make(map[string]bool)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("rate plan %q: expected rate:count", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("rate plan %q: invalid rate", pair)
		}
		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || count <= 0 {
			return nil, fmt.Errorf("rate plan %q: invalid installment count", pair)
		}
		key := rate.String()
		if seen[key] {
			return nil, fmt.Errorf("rate plan %q: duplicate rate", pair)
		}
		seen[key] = true
		plans = append(plans, RatePlan{Rate: rate, Installments: count})
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("no rate plans configured")
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Rate.LessThan(plans[j].Rate) })
	return plans, nil
}

// MustParseRatePlans panics on a malformed table. Used for the built-in default.
func MustParseRatePlans(s string) RatePlans {
	plans, err := ParseRatePlans(s)
	if err != nil {
		panic(err)
	}
	return plans
}

// Count returns the installment count for rate.
func (p RatePlans) Count(rate decimal.Decimal) (int, bool) {
	for _, plan := range p {
		if plan.Rate.Equal(rate) {
			return plan.Installments, true
		}
	}
	return 0, false
}

// Rates lists the supported rates for error messages.
func (p RatePlans) Rates() []string {
	rates := make([]string, 0, len(p))
	for _, plan := range p {
		rates = append(rates, plan.Rate.String())
	}
	return rates
}
