// Package mail delivers outbound email through SMTP or, in development, to
// the structured log.
package mail

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpad/inkpad-api/internal/core/ports"
)

const (
	BackendConsole = "console"
	BackendSMTP    = "smtp"
)

type Config struct {
	Backend  string
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// New returns the Mailer selected by cfg.Backend.
func New(cfg Config, log zerolog.Logger) (ports.Mailer, error) {
	switch cfg.Backend {
	case BackendConsole, "":
		return NewConsoleMailer(cfg.From, log), nil
	case BackendSMTP:
		return NewSMTPMailer(cfg)
	default:
		return nil, fmt.Errorf("mail: unknown backend %q", cfg.Backend)
	}
}
