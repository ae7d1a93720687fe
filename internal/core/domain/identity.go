package domain

import "errors"

// ErrUnauthenticated is returned when an operation needs a caller identity and
// the request carried none.
var ErrUnauthenticated = errors.New("authentication credentials were not provided")

// Identity is the request-scoped caller. The zero value is the anonymous caller.
type Identity struct {
	UserID   uint
	Username string
}

// Anonymous is the identity attached to requests without credentials.
var Anonymous = Identity{}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != 0
}

// Require returns ErrUnauthenticated for the anonymous identity.
func (i Identity) Require() error {
	if !i.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return nil
}
