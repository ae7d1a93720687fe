package domain

import "errors"

// ErrInvalidToken covers every way a token can fail: malformed, expired,
// wrong type, bad signature or stale after a password change.
var ErrInvalidToken = errors.New("invalid or expired token")

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
