package sqlstore

import (
	"time"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

type userRecord struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	Email        string `gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

type profileRecord struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"uniqueIndex;not null"`
	User      userRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Bio       string     `gorm:"type:text"`
	Avatar    string
	FirstName string `gorm:"size:150"`
	LastName  string `gorm:"size:150"`
	UpdatedAt time.Time
}

func (profileRecord) TableName() string { return "profiles" }

type postRecord struct {
	ID            uint       `gorm:"primaryKey"`
	Title         string     `gorm:"size:200;not null"`
	Body          string     `gorm:"type:text;not null"`
	AuthorID      uint       `gorm:"index;not null"`
	Author        userRecord `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	PublishedDate time.Time  `gorm:"index;not null"`
}

func (postRecord) TableName() string { return "posts" }

type todoRecord struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	Completed   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	OwnerID     uint       `gorm:"index;not null"`
	Owner       userRecord `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (todoRecord) TableName() string { return "todos" }

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *profileRecord) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:         r.ID,
		UserID:     r.UserID,
		Bio:        r.Bio,
		Avatar:     r.Avatar,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		UpdatedAt:  r.UpdatedAt,
		Username:   r.User.Username,
		Email:      r.User.Email,
		DateJoined: r.User.CreatedAt,
	}
}

func (r *postRecord) toDomain() *domain.Post {
	return &domain.Post{
		ID:            r.ID,
		Title:         r.Title,
		Body:          r.Body,
		AuthorID:      r.AuthorID,
		Author:        r.Author.Username,
		PublishedDate: r.PublishedDate,
	}
}

func (r *todoRecord) toDomain() *domain.Todo {
	return &domain.Todo{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt,
		OwnerID:     r.OwnerID,
		Owner:       r.Owner.Username,
	}
}
