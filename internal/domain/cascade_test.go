package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChargeTransition(t *testing.T) {
	paid := func() *Installment { return &Installment{Status: StatusPaid} }
	pending := func() *Installment { return &Installment{Status: StatusPending} }

	tests := []struct {
		name         string
		charge       *Charge
		installments []*Installment
		wantStatus   Status
		wantChange   bool
	}{
		{
			name:         "all paid settles pending charge",
			charge:       &Charge{Status: StatusPending},
			installments: []*Installment{paid(), paid(), paid()},
			wantStatus:   StatusPaid,
			wantChange:   true,
		},
		{
			name:         "one pending keeps charge open",
			charge:       &Charge{Status: StatusPending},
			installments: []*Installment{paid(), pending(), paid()},
		},
		{
			name:         "already paid charge does not transition twice",
			charge:       &Charge{Status: StatusPaid},
			installments: []*Installment{paid()},
		},
		{
			name:         "cancelled charge never transitions",
			charge:       &Charge{Status: StatusCancelled},
			installments: []*Installment{paid()},
		},
		{
			name:   "no installments",
			charge: &Charge{Status: StatusPending},
		},
		{
			name: "nil charge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, changed := ChargeTransition(tt.charge, tt.installments)
			assert.Equal(t, tt.wantChange, changed)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Pago")
	assert.NoError(t, err)
	assert.Equal(t, StatusPaid, s)

	_, err = ParseStatus("paid")
	assert.Error(t, err)
}
