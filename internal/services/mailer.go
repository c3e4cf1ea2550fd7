package services

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Mailer delivers a newsletter to its recipients.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, body string) (int, error)
}

// LogMailer does not deliver anything. It logs the send and reports every
// recipient as delivered.
type LogMailer struct {
	Log logrus.FieldLogger
}

func (m LogMailer) Send(ctx context.Context, recipients []string, subject, _ string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.Log.WithFields(logrus.Fields{
		"asunto":        subject,
		"destinatarios": len(recipients),
	}).Info("newsletter send recorded, delivery is not configured")
	return len(recipients), nil
}
