// Package notify delivers due-date reminders to clients.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/config"
	"github.com/segyhp/collection-engine/internal/domain"
)

const (
	ChannelEmail = "email"
	ChannelLog   = "log"
)

// Notice is one reminder ready for delivery.
type Notice struct {
	Kind        domain.NotificationKind
	To          string
	ClientName  string
	Description string
	Number      int
	DueDate     time.Time
	Amount      decimal.Decimal
	DaysLate    int
}

// Notifier delivers notices over one channel.
type Notifier interface {
	Channel() string
	Send(ctx context.Context, notice Notice) error
}

// Compose renders the subject and text body of a notice.
func Compose(n Notice) (string, string) {
	item := n.Description
	if item == "" {
		item = "cobrança"
	}
	if n.Number > 0 {
		item = fmt.Sprintf("parcela %d de %s", n.Number, item)
	}

	var subject string
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", n.ClientName)
	switch n.Kind {
	case domain.NoticeOverdue:
		subject = "Pagamento em atraso"
		fmt.Fprintf(&b, "A %s no valor de R$ %s venceu em %s e está em atraso há %d dia(s).\n",
			item, n.Amount.StringFixed(2), n.DueDate.Format("02/01/2006"), n.DaysLate)
		b.WriteString("Por favor, regularize o pagamento o quanto antes.\n")
	default:
		subject = "Lembrete de vencimento"
		fmt.Fprintf(&b, "A %s no valor de R$ %s vence em %s.\n",
			item, n.Amount.StringFixed(2), n.DueDate.Format("02/01/2006"))
	}
	b.WriteString("\nAtenciosamente,\nEquipe de Cobrança")

	return subject, b.String()
}

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// EmailSender sends notices over SMTP.
type EmailSender struct {
	cfg    config.NotificationConfig
	logger *logrus.Logger
	send   sendFunc
}

func NewEmailSender(cfg config.NotificationConfig, logger *logrus.Logger) *EmailSender {
	return &EmailSender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (s *EmailSender) Channel() string {
	return ChannelEmail
}

// Send delivers the notice. Clients without an email address are an error.
func (s *EmailSender) Send(ctx context.Context, n Notice) error {
	if n.To == "" {
		return fmt.Errorf("client %q has no email address", n.ClientName)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body := Compose(n)
	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{n.To}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.WithError(err).WithField("to", n.To).Error("failed to send notice")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"to": n.To, "kind": n.Kind}).Info("notice sent")
	return nil
}

// LogNotifier writes notices to the log instead of delivering them.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Channel() string {
	return ChannelLog
}

func (l *LogNotifier) Send(_ context.Context, n Notice) error {
	subject, _ := Compose(n)
	l.logger.WithFields(logrus.Fields{
		"to":       n.To,
		"kind":     n.Kind,
		"due_date": n.DueDate.Format("2006-01-02"),
		"amount":   n.Amount.StringFixed(2),
	}).Info(subject)
	return nil
}
