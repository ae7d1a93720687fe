package service

import (
	"context"
	"sort"
	"strings"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

type stubUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.users[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string, foldCase bool) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username || (foldCase && strings.EqualFold(u.Username, username)) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username string, foldCase bool) (bool, error) {
	_, err := r.FindByUsername(ctx, username, foldCase)
	return err == nil, nil
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type stubProfileRepo struct {
	users    *stubUserRepo
	profiles map[uint]*domain.Profile
}

func newStubProfileRepo(users *stubUserRepo) *stubProfileRepo {
	return &stubProfileRepo{users: users, profiles: make(map[uint]*domain.Profile)}
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID uint) (*domain.Profile, error) {
	u, ok := r.users.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	p, ok := r.profiles[userID]
	if !ok {
		p = &domain.Profile{ID: userID, UserID: userID}
		r.profiles[userID] = p
	}
	clone := *p
	clone.Username, clone.Email, clone.DateJoined = u.Username, u.Email, u.CreatedAt
	return &clone, nil
}

func (r *stubProfileRepo) Update(_ context.Context, p *domain.Profile) error {
	clone := *p
	r.profiles[p.UserID] = &clone
	return nil
}

type stubMailQueue struct {
	sent []domain.MailMessage
	full bool
}

func (q *stubMailQueue) Enqueue(msg domain.MailMessage) bool {
	if q.full {
		return false
	}
	q.sent = append(q.sent, msg)
	return true
}

type stubThrottle struct {
	seen map[string]bool
	err  error
}

func (t *stubThrottle) Allow(_ context.Context, email string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	if t.seen[email] {
		return false, nil
	}
	t.seen[email] = true
	return true, nil
}

type stubActivitySink struct {
	kinds []domain.ActivityKind
}

func (s *stubActivitySink) Record(_ context.Context, a domain.Activity) error {
	s.kinds = append(s.kinds, a.Kind)
	return nil
}

type stubPostRepo struct {
	posts  map[uint]*domain.Post
	nextID uint
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[uint]*domain.Post)}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.nextID++
	p.ID = r.nextID
	clone := *p
	r.posts[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id uint) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) List(_ context.Context) ([]*domain.Post, error) {
	return r.filter(func(*domain.Post) bool { return true }), nil
}

func (r *stubPostRepo) FindByAuthor(_ context.Context, authorID uint) ([]*domain.Post, error) {
	return r.filter(func(p *domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *stubPostRepo) filter(keep func(*domain.Post) bool) []*domain.Post {
	out := []*domain.Post{}
	for _, p := range r.posts {
		if keep(p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedDate.Equal(out[j].PublishedDate) {
			return out[i].PublishedDate.After(out[j].PublishedDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post) error {
	if _, ok := r.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	clone := *p
	r.posts[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

type stubTodoRepo struct {
	todos  map[uint]*domain.Todo
	nextID uint
}

func newStubTodoRepo() *stubTodoRepo {
	return &stubTodoRepo{todos: make(map[uint]*domain.Todo)}
}

func (r *stubTodoRepo) Create(_ context.Context, t *domain.Todo) error {
	r.nextID++
	t.ID = r.nextID
	clone := *t
	r.todos[t.ID] = &clone
	return nil
}

func (r *stubTodoRepo) FindByOwner(_ context.Context, ownerID uint, terms []string) ([]*domain.Todo, error) {
	out := []*domain.Todo{}
	for _, t := range r.todos {
		if t.OwnerID == ownerID && MatchesCompleted(t.Completed, terms) {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubTodoRepo) FindByID(_ context.Context, id, ownerID uint) (*domain.Todo, error) {
	t, ok := r.todos[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrTodoNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTodoRepo) Update(_ context.Context, t *domain.Todo) error {
	clone := *t
	r.todos[t.ID] = &clone
	return nil
}

func (r *stubTodoRepo) Delete(_ context.Context, id, ownerID uint) error {
	t, ok := r.todos[id]
	if !ok || t.OwnerID != ownerID {
		return domain.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}
