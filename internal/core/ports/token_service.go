package ports

import "github.com/inkpad/inkpad-api/internal/core/domain"

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenIssuer signs and verifies access, refresh and password-reset tokens.
type TokenIssuer interface {
	IssuePair(user *domain.User) (TokenPair, error)
	Verify(access string) (domain.Identity, error)
	Refresh(refresh string) (string, error)

	// IssueResetToken returns the encoded user id and a token bound to the
	// user's current password hash.
	IssueResetToken(user *domain.User) (uid, token string, err error)
	DecodeUID(uid string) (uint, error)
	VerifyResetToken(user *domain.User, token string) error
}
