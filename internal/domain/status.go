package domain

import "fmt"

// Status is the lifecycle token stored for charges and installments.
type Status string

// Business logic constants
const (
	StatusPending   Status = "Pendente"
	StatusPaid      Status = "Pago"
	StatusCancelled Status = "Cancelada"
)

// ParseStatus maps a stored token to a Status.
func ParseStatus(token string) (Status, error) {
	switch s := Status(token); s {
	case StatusPending, StatusPaid, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("unknown status token %q", token)
}

// ChargeType distinguishes flat charges from installment plans.
type ChargeType string

const (
	ChargeTypeSingle       ChargeType = "Única"
	ChargeTypeInstallments ChargeType = "Parcelada"
)
