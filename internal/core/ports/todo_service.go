package ports

import (
	"context"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// TodoService exposes owner-scoped todo operations.
type TodoService interface {
	ListTodos(ctx context.Context, id domain.Identity, search string) ([]*domain.Todo, error)
	GetTodo(ctx context.Context, id domain.Identity, todoID uint) (*domain.Todo, error)
	CreateTodo(ctx context.Context, id domain.Identity, title, description string) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, id domain.Identity, todoID uint, upd domain.TodoUpdate) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id domain.Identity, todoID uint) error
}
