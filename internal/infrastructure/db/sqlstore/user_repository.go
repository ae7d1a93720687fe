package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

var _ ports.UserRepository = (*GormUserRepository)(nil)

// Create inserts the user together with an empty profile.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := userRecord{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return tx.Create(&profileRecord{UserID: rec.ID, UpdatedAt: rec.CreatedAt}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string, foldCase bool) (*domain.User, error) {
	if foldCase {
		return r.first(ctx, "LOWER(username) = LOWER(?)", username)
	}
	return r.first(ctx, "username = ?", username)
}

// FindByEmail matches case-insensitively.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string, foldCase bool) (bool, error) {
	if foldCase {
		return r.exists(ctx, "LOWER(username) = LOWER(?)", username)
	}
	return r.exists(ctx, "username = ?", username)
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *GormUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where(query, args...).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *GormUserRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

type GormProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

var _ ports.ProfileRepository = (*GormProfileRepository)(nil)

// FindByUserID returns the user's profile, creating an empty one for accounts
// that predate profiles.
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID uint) (*domain.Profile, error) {
	db := r.db.WithContext(ctx)

	var user userRecord
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var rec profileRecord
	err := db.Where(profileRecord{UserID: userID}).
		Attrs(profileRecord{UpdatedAt: time.Now().UTC()}).
		FirstOrCreate(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	rec.User = user
	return rec.toDomain(), nil
}

func (r *GormProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	res := r.db.WithContext(ctx).Model(&profileRecord{}).Where("user_id = ?", p.UserID).
		Updates(map[string]interface{}{
			"bio":        p.Bio,
			"avatar":     p.Avatar,
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"updated_at": p.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
