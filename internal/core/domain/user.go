package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("a user with that username already exists")
	ErrEmailExists        = errors.New("a user with that email already exists")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
)

// User models a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"date_joined"`
	UpdatedAt    time.Time `json:"-"`
}

// Profile holds the user-editable attributes attached one-to-one to a User.
type Profile struct {
	ID        uint
	UserID    uint
	Bio       string
	Avatar    string
	FirstName string
	LastName  string
	UpdatedAt time.Time

	// Populated from the owning user on reads.
	Username   string
	Email      string
	DateJoined time.Time
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	Bio       *string
	Avatar    *string
	FirstName *string
	LastName  *string
}

// Apply copies the non-nil fields of u onto p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
}
