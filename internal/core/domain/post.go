package domain

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
)

// Post is a blog entry. AuthorID is fixed at creation.
type Post struct {
	ID            uint
	Title         string
	Body          string
	AuthorID      uint
	Author        string // author username, filled on reads
	PublishedDate time.Time
}

// PostUpdate is a partial update; nil fields are left untouched.
type PostUpdate struct {
	Title *string
	Body  *string
}

// OwnedBy reports whether the given identity authored the post.
func (p *Post) OwnedBy(id Identity) bool {
	return id.IsAuthenticated() && p.AuthorID == id.UserID
}
