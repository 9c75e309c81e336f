package notify

import (
	"context"
	"fmt"

	"github.com/anatole0000/book-store/internal/logger"
)

// LogMailer writes outgoing mail to the structured log instead of an SMTP
// relay. Stands in for a real provider in development and tests; the worker
// only sees the Mailer interface, so swapping in a provider-backed
// implementation is a wiring change.
type LogMailer struct {
	// Sender appears as the from address in log output
	Sender string
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(sender string) *LogMailer {
	return &LogMailer{Sender: sender}
}

// Send logs the email
func (m *LogMailer) Send(ctx context.Context, email Email) error {
	if email.To == "" {
		return fmt.Errorf("email has no recipient")
	}
	logger.FromContext(ctx).Info("Email sent",
		"from", m.Sender,
		"to", email.To,
		"subject", email.Subject,
		"body_bytes", len(email.Body))
	return nil
}
