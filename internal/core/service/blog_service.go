package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpad/inkpad-api/internal/api/metrics"
	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

const maxTitleLength = 200

type BlogService struct {
	repo   ports.PostRepository
	logger zerolog.Logger
}

func NewBlogService(repo ports.PostRepository, logger zerolog.Logger) *BlogService {
	return &BlogService{repo: repo, logger: logger}
}

var _ ports.BlogService = (*BlogService)(nil)

// ListPosts returns every post, most recently published first.
func (s *BlogService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.List(ctx)
}

func (s *BlogService) GetPost(ctx context.Context, postID uint) (*domain.Post, error) {
	return s.repo.FindByID(ctx, postID)
}

// CreatePost stores a post authored by the caller. Any author the client
// may have sent is never consulted.
func (s *BlogService) CreatePost(ctx context.Context, id domain.Identity, title, body string) (*domain.Post, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	if err := validatePostFields(title, body); err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:         title,
		Body:          body,
		AuthorID:      id.UserID,
		Author:        id.Username,
		PublishedDate: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Uint("author_id", id.UserID).Msg("failed to create post")
		return nil, err
	}

	metrics.PostsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Uint("post_id", post.ID).Uint("author_id", id.UserID).Msg("post created")
	return post, nil
}

// UpdatePost applies upd when the caller authored the post.
// Returns domain.ErrPostNotFound or domain.ErrForbidden otherwise.
func (s *BlogService) UpdatePost(ctx context.Context, id domain.Identity, postID uint, upd domain.PostUpdate) (*domain.Post, error) {
	post, err := s.ownedPost(ctx, id, postID)
	if err != nil {
		return nil, err
	}

	title, body := post.Title, post.Body
	if upd.Title != nil {
		title = *upd.Title
	}
	if upd.Body != nil {
		body = *upd.Body
	}
	if err := validatePostFields(title, body); err != nil {
		return nil, err
	}
	post.Title, post.Body = title, body

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	metrics.PostsTotal.WithLabelValues("update").Inc()
	return post, nil
}

func (s *BlogService) DeletePost(ctx context.Context, id domain.Identity, postID uint) error {
	if _, err := s.ownedPost(ctx, id, postID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}
	metrics.PostsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Uint("post_id", postID).Uint("author_id", id.UserID).Msg("post deleted")
	return nil
}

func (s *BlogService) ListMyPosts(ctx context.Context, id domain.Identity) ([]*domain.Post, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	return s.repo.FindByAuthor(ctx, id.UserID)
}

// ownedPost distinguishes a missing post (404) from someone else's post (403).
func (s *BlogService) ownedPost(ctx context.Context, id domain.Identity, postID uint) (*domain.Post, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(id) {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

func validatePostFields(title, body string) error {
	switch {
	case strings.TrimSpace(title) == "":
		return domain.NewValidationError("title is required")
	case len(title) > maxTitleLength:
		return domain.NewValidationError("title must be at most 200 characters")
	case strings.TrimSpace(body) == "":
		return domain.NewValidationError("body is required")
	}
	return nil
}
