package mail

import (
	"context"

	"learnhub/logger"
)

type consoleMailer struct {
	log *logger.Logger
}

// NewConsoleMailer logs emails instead of sending them.
func NewConsoleMailer(log *logger.Logger) Mailer {
	return &consoleMailer{log: log.With("service", "ConsoleMailer")}
}

func (m *consoleMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("email", "to", msg.ToEmail, "subject", msg.Subject, "text", msg.Text)
	return nil
}
