package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

// ConsoleMailer writes each message to the log instead of sending it.
type ConsoleMailer struct {
	from string
	log  zerolog.Logger
}

func NewConsoleMailer(from string, log zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{from: from, log: log.With().Str("component", "mail").Logger()}
}

var _ ports.Mailer = (*ConsoleMailer)(nil)

func (m *ConsoleMailer) Send(_ context.Context, msg domain.MailMessage) error {
	m.log.Info().
		Str("from", m.from).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail")
	return nil
}
