package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind identifies which reminder was sent.
type NotificationKind string

const (
	NoticeUpcoming NotificationKind = "aviso_vencimento"
	NoticeOverdue  NotificationKind = "atraso"
)

// Notification is a sent reminder. At most one exists per target, kind and day.
type Notification struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	ClientID      uuid.UUID        `json:"client_id" db:"cliente_id"`
	ChargeID      uuid.UUID        `json:"charge_id" db:"cobranca_id"`
	InstallmentID uuid.NullUUID    `json:"installment_id" db:"parcela_id"`
	TargetID      uuid.UUID        `json:"target_id" db:"alvo_id"`
	Kind          NotificationKind `json:"kind" db:"tipo"`
	Channel       string           `json:"channel" db:"canal"`
	Recipient     string           `json:"recipient" db:"destinatario"`
	Message       string           `json:"message" db:"mensagem"`
	SentOn        time.Time        `json:"sent_on" db:"data_envio"`
	CreatedAt     time.Time        `json:"created_at" db:"criado_em"`
}

// DueItem is an open installment or flat charge approaching or past its due date.
type DueItem struct {
	Client      *Client      `json:"client"`
	Charge      *Charge      `json:"charge"`
	Installment *Installment `json:"installment,omitempty"`
}

// TargetID is the installment ID when present, otherwise the charge ID.
func (d *DueItem) TargetID() uuid.UUID {
	if d.Installment != nil {
		return d.Installment.ID
	}
	return d.Charge.ID
}

// DueDate of the item's target.
func (d *DueItem) DueDate() time.Time {
	if d.Installment != nil {
		return d.Installment.DueDate
	}
	return d.Charge.DueDate
}

// NoticeReport summarizes a notification run.
type NoticeReport struct {
	Date    Date `json:"date"`
	Sent    int  `json:"sent"`
	Skipped int  `json:"skipped"`
	Failed  int  `json:"failed"`
}
