package gateway

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/phazelsound/client/internal/template"
)

// Mailer delivers rendered OTP mails.
type Mailer interface {
	Send(ctx context.Context, mail template.Mail) error
}

// LogMailer writes mails to the log instead of sending them.
type LogMailer struct {
	log *logrus.Logger
}

func NewLogMailer(log *logrus.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, mail template.Mail) error {
	m.log.WithFields(logrus.Fields{
		"to":      mail.To,
		"subject": mail.Subject,
	}).Info(mail.Body)
	return nil
}
