package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

// completedText renders the completed flag as the lower-case words the
// search filter matches against.
const completedText = "CASE WHEN completed THEN 'true' ELSE 'false' END"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type GormTodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *GormTodoRepository {
	return &GormTodoRepository{db: db}
}

var _ ports.TodoRepository = (*GormTodoRepository)(nil)

func (r *GormTodoRepository) Create(ctx context.Context, t *domain.Todo) error {
	rec := todoRecord{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		OwnerID:     t.OwnerID,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	t.ID = rec.ID
	return nil
}

func (r *GormTodoRepository) FindByOwner(ctx context.Context, ownerID uint, terms []string) ([]*domain.Todo, error) {
	q := r.db.WithContext(ctx).Preload("Owner").Where("owner_id = ?", ownerID)
	for _, term := range terms {
		q = q.Where(completedText+` LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
	}

	var recs []todoRecord
	if err := q.Order("created_at DESC, id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	todos := make([]*domain.Todo, 0, len(recs))
	for i := range recs {
		todos = append(todos, recs[i].toDomain())
	}
	return todos, nil
}

func (r *GormTodoRepository) FindByID(ctx context.Context, id, ownerID uint) (*domain.Todo, error) {
	var rec todoRecord
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *GormTodoRepository) Update(ctx context.Context, t *domain.Todo) error {
	res := r.db.WithContext(ctx).Model(&todoRecord{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Updates(map[string]interface{}{
			"title":       t.Title,
			"description": t.Description,
			"completed":   t.Completed,
		})
	if res.Error != nil {
		return fmt.Errorf("update todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *GormTodoRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&todoRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}
