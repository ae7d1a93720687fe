package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// newTestDB opens a private in-memory SQLite database for one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(Config{
		Driver: DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, repo *GormUserRepository, username, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "alice", "alice@example.com")
	if alice.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}

	if _, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists on duplicate username, got %v", err)
	}

	got, err := repo.FindByUsername(ctx, "alice", false)
	if err != nil || got.ID != alice.ID {
		t.Fatalf("FindByUsername = %+v, %v", got, err)
	}
	if _, err := repo.FindByUsername(ctx, "ALICE", false); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected case-sensitive miss, got %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "ALICE", true); err != nil {
		t.Fatalf("expected case-insensitive hit, got %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "Alice@Example.com"); err != nil {
		t.Fatalf("FindByEmail should ignore case: %v", err)
	}

	exists, err := repo.ExistsByEmail(ctx, "ALICE@example.com")
	if err != nil || !exists {
		t.Fatalf("ExistsByEmail = %v, %v", exists, err)
	}
	exists, err = repo.ExistsByUsername(ctx, "bob", false)
	if err != nil || exists {
		t.Fatalf("ExistsByUsername(bob) = %v, %v", exists, err)
	}

	if err := repo.UpdatePassword(ctx, alice.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	got, _ = repo.FindByID(ctx, alice.ID)
	if got.PasswordHash != "new-hash" {
		t.Fatalf("password not updated: %q", got.PasswordHash)
	}
	if err := repo.UpdatePassword(ctx, 999, "x"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProfileRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")

	p, err := profiles.FindByUserID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if p.Username != "alice" || p.Email != "alice@example.com" || p.Bio != "" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	p.Bio, p.FirstName = "gopher", "Alice"
	p.UpdatedAt = time.Now().UTC()
	if err := profiles.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := profiles.FindByUserID(ctx, alice.ID)
	if got.Bio != "gopher" || got.FirstName != "Alice" {
		t.Fatalf("profile not persisted: %+v", got)
	}

	if _, err := profiles.FindByUserID(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProfileRepository_CreatesMissingProfile(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()
	rec := userRecord{Username: "legacy", Email: "legacy@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("insert legacy user: %v", err)
	}

	p, err := NewProfileRepository(db).FindByUserID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if p.ID == 0 || p.UserID != rec.ID {
		t.Fatalf("profile not created: %+v", p)
	}
}

func TestPostRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	bob := createUser(t, users, "bob", "bob@example.com")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	older := &domain.Post{Title: "older", Body: "b", AuthorID: alice.ID, PublishedDate: base}
	newer := &domain.Post{Title: "newer", Body: "b", AuthorID: bob.ID, PublishedDate: base.Add(time.Hour)}
	tie := &domain.Post{Title: "tie", Body: "b", AuthorID: alice.ID, PublishedDate: base}
	for _, p := range []*domain.Post{older, newer, tie} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	posts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []uint{newer.ID, tie.ID, older.ID}
	if len(posts) != len(want) {
		t.Fatalf("expected %d posts, got %d", len(want), len(posts))
	}
	for i, id := range want {
		if posts[i].ID != id {
			t.Fatalf("posts[%d] = %d, want %d", i, posts[i].ID, id)
		}
	}
	if posts[0].Author != "bob" {
		t.Fatalf("author username not loaded: %+v", posts[0])
	}

	mine, _ := repo.FindByAuthor(ctx, alice.ID)
	if len(mine) != 2 {
		t.Fatalf("expected 2 posts for alice, got %d", len(mine))
	}

	older.Title = "edited"
	if err := repo.Update(ctx, older); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.FindByID(ctx, older.ID)
	if got.Title != "edited" || got.Author != "alice" {
		t.Fatalf("unexpected post after update: %+v", got)
	}

	if err := repo.Delete(ctx, older.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, older.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, older.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on second delete, got %v", err)
	}
}

func TestTodoRepository_OwnerScoping(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewTodoRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	bob := createUser(t, users, "bob", "bob@example.com")

	todo := &domain.Todo{Title: "t1", OwnerID: alice.ID, CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, todo); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.FindByID(ctx, todo.ID, bob.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound for foreign owner, got %v", err)
	}
	if err := repo.Delete(ctx, todo.ID, bob.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on foreign delete, got %v", err)
	}
	foreign := *todo
	foreign.OwnerID = bob.ID
	foreign.Completed = true
	if err := repo.Update(ctx, &foreign); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on foreign update, got %v", err)
	}

	got, err := repo.FindByID(ctx, todo.ID, alice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Completed || got.Owner != "alice" {
		t.Fatalf("unexpected todo: %+v", got)
	}

	list, _ := repo.FindByOwner(ctx, bob.ID, nil)
	if len(list) != 0 {
		t.Fatalf("bob should see no todos, got %d", len(list))
	}
}

func TestTodoRepository_Search(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewTodoRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	open := &domain.Todo{Title: "open", OwnerID: alice.ID, CreatedAt: base}
	done := &domain.Todo{Title: "done", OwnerID: alice.ID, CreatedAt: base.Add(time.Minute), Completed: true}
	for _, td := range []*domain.Todo{open, done} {
		if err := repo.Create(ctx, td); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	cases := []struct {
		terms []string
		want  []uint
	}{
		{nil, []uint{done.ID, open.ID}},
		{[]string{"true"}, []uint{done.ID}},
		{[]string{"fal"}, []uint{open.ID}},
		{[]string{"e"}, []uint{done.ID, open.ID}},
		{[]string{"t", "u"}, []uint{done.ID}},
		{[]string{"%"}, nil},
		{[]string{"_"}, nil},
	}
	for _, tc := range cases {
		todos, err := repo.FindByOwner(ctx, alice.ID, tc.terms)
		if err != nil {
			t.Fatalf("FindByOwner(%v): %v", tc.terms, err)
		}
		if len(todos) != len(tc.want) {
			t.Fatalf("FindByOwner(%v) returned %d todos, want %d", tc.terms, len(todos), len(tc.want))
		}
		for i, id := range tc.want {
			if todos[i].ID != id {
				t.Fatalf("FindByOwner(%v)[%d] = %d, want %d", tc.terms, i, todos[i].ID, id)
			}
		}
	}
}
