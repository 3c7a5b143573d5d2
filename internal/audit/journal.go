// Package audit appends one JSON line per committed mutation.
package audit

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Actions recorded in the journal.
const (
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionGenerate      = "generate_schedule"
	ActionRecalculate   = "recalculate_schedule"
	ActionPayment       = "payment"
	ActionPenalty       = "manual_penalty"
	ActionDueDate       = "due_date"
	ActionCancel        = "cancel"
	ActionRealignDate   = "realign_due_date"
	ActionReconcile     = "reconcile_status"
	ActionSettingChange = "setting"
)

// Entities recorded in the journal.
const (
	EntityClient      = "cliente"
	EntityCharge      = "cobranca"
	EntityInstallment = "parcela"
	EntitySetting     = "configuracao"
)

// Entry describes one mutation.
type Entry struct {
	User     string
	Action   string
	Entity   string
	EntityID string
	Changes  map[string]any
}

// Journal records entries. Implementations never fail the caller.
type Journal interface {
	Record(ctx context.Context, entry Entry)
}

// FileJournal writes JSON lines through a dedicated logrus logger.
type FileJournal struct {
	log    *logrus.Logger
	closer io.Closer
}

// Open appends to the journal at path, creating it if needed.
func Open(path string) (*FileJournal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, err
	}
	j := NewJournal(f)
	j.closer = f
	return j, nil
}

// NewJournal writes to w.
func NewJournal(w io.Writer) *FileJournal {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "action",
		},
		DisableHTMLEscape: true,
	})
	return &FileJournal{log: log}
}

func (j *FileJournal) Record(_ context.Context, e Entry) {
	user := e.User
	if user == "" {
		user = "system"
	}
	fields := logrus.Fields{
		"user":      user,
		"entity":    e.Entity,
		"entity_id": e.EntityID,
	}
	if len(e.Changes) > 0 {
		fields["changes"] = e.Changes
	}
	j.log.WithFields(fields).Info(e.Action)
}

// Close releases the underlying file, if any.
func (j *FileJournal) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Record(context.Context, Entry) {}
