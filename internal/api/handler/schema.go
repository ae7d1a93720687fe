package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Identity ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// profileUpdateRequest is a partial update. Fields left out of the body keep
// their stored value; unknown fields are ignored.
type profileUpdateRequest struct {
	Bio       *string `json:"bio"`
	Avatar    *string `json:"avatar"     validate:"omitempty,max=200"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
}

type profileResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined"`
	Bio        string    `json:"bio"`
	Avatar     string    `json:"avatar"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
}

type csrfResponse struct {
	CSRFToken string `json:"csrfToken"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type passwordResetConfirmRequest struct {
	UID         string `json:"uid"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type accessResponse struct {
	Access string `json:"access"`
}

// --- Blog ---

// postRequest is used for create and full replace.
type postRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body"  validate:"required"`
}

type postPatchRequest struct {
	Title *string `json:"title" validate:"omitempty,max=200"`
	Body  *string `json:"body"`
}

type postResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Author        string    `json:"author"`
	PublishedDate time.Time `json:"published_date"`
}

// --- Todo ---

type todoCreateRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description"`
}

type todoReplaceRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type todoPatchRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type todoResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	Owner       string    `json:"owner"`
}
