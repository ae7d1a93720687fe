package ports

import (
	"context"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// BlogService is read-everyone, write-author-only.
type BlogService interface {
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	GetPost(ctx context.Context, postID uint) (*domain.Post, error)
	CreatePost(ctx context.Context, id domain.Identity, title, body string) (*domain.Post, error)
	UpdatePost(ctx context.Context, id domain.Identity, postID uint, upd domain.PostUpdate) (*domain.Post, error)
	DeletePost(ctx context.Context, id domain.Identity, postID uint) error
	ListMyPosts(ctx context.Context, id domain.Identity) ([]*domain.Post, error)
}
