package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

// SMTPMailer sends plain-text mail through an SMTP relay.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

var _ ports.Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, msg domain.MailMessage) error {
	out, err := buildMessage(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg domain.MailMessage) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("mail from %q: %w", from, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail to %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)
	out.SetDate()
	out.SetMessageID()
	out.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return out, nil
}
