package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/inkpad/inkpad-api/internal/api/metrics"
	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

type TodoService struct {
	repo   ports.TodoRepository
	logger zerolog.Logger
}

func NewTodoService(repo ports.TodoRepository, logger zerolog.Logger) *TodoService {
	return &TodoService{repo: repo, logger: logger}
}

var _ ports.TodoService = (*TodoService)(nil)

// ListTodos returns the caller's todos, newest first. search is a free-text
// filter matched against the "true"/"false" rendering of completed.
func (s *TodoService) ListTodos(ctx context.Context, id domain.Identity, search string) ([]*domain.Todo, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	return s.repo.FindByOwner(ctx, id.UserID, SearchTerms(search))
}

func (s *TodoService) GetTodo(ctx context.Context, id domain.Identity, todoID uint) (*domain.Todo, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, todoID, id.UserID)
}

func (s *TodoService) CreateTodo(ctx context.Context, id domain.Identity, title, description string) (*domain.Todo, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	if err := validateTodoTitle(title); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
		OwnerID:     id.UserID,
		Owner:       id.Username,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		s.logger.Error().Err(err).Uint("owner_id", id.UserID).Msg("failed to create todo")
		return nil, err
	}

	metrics.TodosTotal.WithLabelValues("create").Inc()
	return todo, nil
}

// UpdateTodo applies upd to a todo owned by the caller. Todos owned by anyone
// else are reported as domain.ErrTodoNotFound.
func (s *TodoService) UpdateTodo(ctx context.Context, id domain.Identity, todoID uint, upd domain.TodoUpdate) (*domain.Todo, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	todo, err := s.repo.FindByID(ctx, todoID, id.UserID)
	if err != nil {
		return nil, err
	}
	upd.Apply(todo)
	if err := validateTodoTitle(todo.Title); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}
	metrics.TodosTotal.WithLabelValues("update").Inc()
	return todo, nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, id domain.Identity, todoID uint) error {
	if err := id.Require(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, todoID, id.UserID); err != nil {
		return err
	}
	metrics.TodosTotal.WithLabelValues("delete").Inc()
	return nil
}

// SearchTerms splits a search string on whitespace and commas and lower-cases
// each term. An empty result means no filtering.
func SearchTerms(search string) []string {
	fields := strings.FieldsFunc(search, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// MatchesCompleted reports whether every term occurs in the text form of
// completed. Repositories that cannot push the filter into SQL use this.
func MatchesCompleted(completed bool, terms []string) bool {
	text := "false"
	if completed {
		text = "true"
	}
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

func validateTodoTitle(title string) error {
	switch {
	case strings.TrimSpace(title) == "":
		return domain.NewValidationError("title is required")
	case len(title) > maxTitleLength:
		return domain.NewValidationError("title must be at most 200 characters")
	}
	return nil
}
