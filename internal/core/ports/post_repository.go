package ports

import (
	"context"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// PostRepository defines persistence operations for blog posts.
// List methods return newest first (published_date DESC, id DESC).
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id uint) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	FindByAuthor(ctx context.Context, authorID uint) ([]*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id uint) error
}
