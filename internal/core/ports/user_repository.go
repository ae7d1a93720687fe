package ports

import (
	"context"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// UserRepository defines persistence for accounts and their profiles.
type UserRepository interface {
	// Create inserts the user together with an empty profile in one transaction.
	// Returns domain.ErrUserExists when a unique constraint is violated.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	// FindByUsername matches case-insensitively when foldCase is true.
	FindByUsername(ctx context.Context, username string, foldCase bool) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string, foldCase bool) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

// ProfileRepository reads and writes the one-to-one user profile.
type ProfileRepository interface {
	// FindByUserID creates an empty profile when the user has none yet.
	FindByUserID(ctx context.Context, userID uint) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}
