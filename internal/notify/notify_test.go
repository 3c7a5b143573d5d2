package notify

import (
	"context"
	"errors"
	"io"
	"net/smtp"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/collection-engine/internal/config"
	"github.com/segyhp/collection-engine/internal/domain"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestCompose(t *testing.T) {
	due := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	subject, body := Compose(Notice{
		Kind:        domain.NoticeUpcoming,
		ClientName:  "Maria",
		Description: "Empréstimo",
		Number:      3,
		DueDate:     due,
		Amount:      decimal.NewFromInt(130),
	})
	assert.Equal(t, "Lembrete de vencimento", subject)
	assert.Contains(t, body, "parcela 3 de Empréstimo")
	assert.Contains(t, body, "R$ 130.00")
	assert.Contains(t, body, "04/03/2024")

	subject, body = Compose(Notice{Kind: domain.NoticeOverdue, ClientName: "João", DueDate: due, Amount: decimal.NewFromInt(50), DaysLate: 5})
	assert.Equal(t, "Pagamento em atraso", subject)
	assert.Contains(t, body, "cobrança no valor de R$ 50.00")
	assert.Contains(t, body, "5 dia(s)")
}

func TestEmailSender_Send(t *testing.T) {
	cfg := config.NotificationConfig{SMTPHost: "smtp.example.com", SMTPPort: "587", SMTPUser: "u", SMTPPassword: "p", From: "cobranca@example.com"}

	t.Run("delivers", func(t *testing.T) {
		s := NewEmailSender(cfg, quietLogger())
		var sent *email.Email
		var gotAddr string
		s.send = func(e *email.Email, addr string, auth smtp.Auth) error {
			sent, gotAddr = e, addr
			return nil
		}

		err := s.Send(context.Background(), Notice{Kind: domain.NoticeUpcoming, To: "maria@example.com", ClientName: "Maria", Amount: decimal.NewFromInt(10)})

		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, []string{"maria@example.com"}, sent.To)
		assert.Equal(t, "cobranca@example.com", sent.From)
		assert.Equal(t, "Lembrete de vencimento", sent.Subject)
	})

	t.Run("smtp failure", func(t *testing.T) {
		s := NewEmailSender(cfg, quietLogger())
		s.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") }

		err := s.Send(context.Background(), Notice{To: "maria@example.com"})
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("missing address", func(t *testing.T) {
		s := NewEmailSender(cfg, quietLogger())
		assert.Error(t, s.Send(context.Background(), Notice{ClientName: "Sem Email"}))
	})
}
