package handler

import (
	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toProfileResponse(p *domain.Profile) profileResponse {
	return profileResponse{
		ID:         p.ID,
		Username:   p.Username,
		Email:      p.Email,
		DateJoined: p.DateJoined,
		Bio:        p.Bio,
		Avatar:     p.Avatar,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
	}
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:            p.ID,
		Title:         p.Title,
		Body:          p.Body,
		Author:        p.Author,
		PublishedDate: p.PublishedDate,
	}
}

func toPostResponses(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		Owner:       t.Owner,
	}
}

func toTodoResponses(todos []*domain.Todo) []todoResponse {
	out := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTodoResponse(t))
	}
	return out
}

// --- Request → Domain ---

func (r profileUpdateRequest) toDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Bio:       r.Bio,
		Avatar:    r.Avatar,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

func (r postRequest) toDomain() domain.PostUpdate {
	return domain.PostUpdate{Title: &r.Title, Body: &r.Body}
}

func (r postPatchRequest) toDomain() domain.PostUpdate {
	return domain.PostUpdate{Title: r.Title, Body: r.Body}
}

func (r todoReplaceRequest) toDomain() domain.TodoUpdate {
	return domain.TodoUpdate{Title: &r.Title, Description: &r.Description, Completed: &r.Completed}
}

func (r todoPatchRequest) toDomain() domain.TodoUpdate {
	return domain.TodoUpdate{Title: r.Title, Description: r.Description, Completed: r.Completed}
}
