package domain

import (
	"errors"
	"time"
)

var ErrTodoNotFound = errors.New("todo not found")

// Todo is a private task. It is only ever visible to its owner.
type Todo struct {
	ID          uint
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	OwnerID     uint
	Owner       string // owner username, filled on reads
}

// TodoUpdate is a partial update; nil fields are left untouched.
type TodoUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

func (u TodoUpdate) Apply(t *Todo) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
}
