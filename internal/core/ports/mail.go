package ports

import (
	"context"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// Mailer delivers a single message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg domain.MailMessage) error
}

// MailQueue accepts messages for background delivery. Enqueue never blocks;
// it reports false when the message was dropped.
type MailQueue interface {
	Enqueue(msg domain.MailMessage) bool
}
