package ports

import (
	"context"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// ActivitySink persists account audit records. Failures are non-fatal to callers.
type ActivitySink interface {
	Record(ctx context.Context, a domain.Activity) error
}

// ResetThrottle limits how often reset mail is sent to one address.
type ResetThrottle interface {
	// Allow reports whether a reset mail may be sent now and starts the window.
	Allow(ctx context.Context, email string) (bool, error)
}
