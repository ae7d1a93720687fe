package ports

import (
	"context"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// IdentityService covers registration, login, profile and password reset.
type IdentityService interface {
	Register(ctx context.Context, username, password, email string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (TokenPair, error)
	Refresh(ctx context.Context, refresh string) (string, error)
	GetProfile(ctx context.Context, id domain.Identity) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, id domain.Identity, upd domain.ProfileUpdate) (*domain.Profile, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error
}
