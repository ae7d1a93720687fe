package ports

import (
	"context"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// TodoRepository defines owner-scoped persistence for todos. Every lookup is
// filtered by owner, so rows belonging to someone else surface as
// domain.ErrTodoNotFound.
type TodoRepository interface {
	Create(ctx context.Context, t *domain.Todo) error
	// FindByOwner returns the owner's todos, newest first. Each search term must
	// appear in the text form ("true"/"false") of the completed flag.
	FindByOwner(ctx context.Context, ownerID uint, terms []string) ([]*domain.Todo, error)
	FindByID(ctx context.Context, id, ownerID uint) (*domain.Todo, error)
	Update(ctx context.Context, t *domain.Todo) error
	Delete(ctx context.Context, id, ownerID uint) error
}
