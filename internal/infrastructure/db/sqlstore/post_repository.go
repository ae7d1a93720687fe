package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

const postOrder = "published_date DESC, id DESC"

type GormPostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

var _ ports.PostRepository = (*GormPostRepository)(nil)

func (r *GormPostRepository) Create(ctx context.Context, p *domain.Post) error {
	rec := postRecord{
		Title:         p.Title,
		Body:          p.Body,
		AuthorID:      p.AuthorID,
		PublishedDate: p.PublishedDate,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = rec.ID
	return nil
}

func (r *GormPostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	var rec postRecord
	err := r.db.WithContext(ctx).Preload("Author").First(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *GormPostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *GormPostRepository) FindByAuthor(ctx context.Context, authorID uint) ([]*domain.Post, error) {
	return r.find(r.db.WithContext(ctx).Where("author_id = ?", authorID))
}

// Update writes title and body only. Author and publish date never change.
func (r *GormPostRepository) Update(ctx context.Context, p *domain.Post) error {
	res := r.db.WithContext(ctx).Model(&postRecord{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"title": p.Title, "body": p.Body})
	if res.Error != nil {
		return fmt.Errorf("update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *GormPostRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&postRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *GormPostRepository) find(q *gorm.DB) ([]*domain.Post, error) {
	var recs []postRecord
	if err := q.Preload("Author").Order(postOrder).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]*domain.Post, 0, len(recs))
	for i := range recs {
		posts = append(posts, recs[i].toDomain())
	}
	return posts, nil
}
