package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

type identityFixture struct {
	users    *stubUserRepo
	profiles *stubProfileRepo
	tokens   *TokenService
	mail     *stubMailQueue
	svc      *IdentityService
}

func newIdentityFixture(cfg IdentityConfig) *identityFixture {
	f := &identityFixture{
		users:  newStubUserRepo(),
		tokens: newTestTokenService(),
		mail:   &stubMailQueue{},
	}
	f.profiles = newStubProfileRepo(f.users)
	f.svc = NewIdentityService(f.users, f.profiles, f.tokens, f.mail, cfg, zerolog.Nop())
	return f
}

func (f *identityFixture) register(t *testing.T, username, password, email string) *domain.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), username, password, email)
	if err != nil {
		t.Fatalf("Register(%q) returned error: %v", username, err)
	}
	return u
}

// resetLink pulls uid and token out of the last reset mail.
func (f *identityFixture) resetLink(t *testing.T) (string, string) {
	t.Helper()
	if len(f.mail.sent) == 0 {
		t.Fatalf("no reset mail was queued")
	}
	body := f.mail.sent[len(f.mail.sent)-1].Body
	i := strings.Index(body, "/reset-password/")
	if i < 0 {
		t.Fatalf("reset link missing from body: %q", body)
	}
	rest := strings.Fields(body[i+len("/reset-password/"):])[0]
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		t.Fatalf("malformed reset link %q", rest)
	}
	return parts[0], parts[1]
}

func TestIdentityService_Register_Success(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})

	user := f.register(t, "alice", "pw1", "alice@Example.COM")
	if user.ID == 0 {
		t.Fatalf("expected an id to be assigned")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected domain to be lower-cased, got %q", user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestIdentityService_Register_Validation(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{PasswordMinLength: 8})

	cases := []struct {
		name, username, password, email string
	}{
		{"missing username", "", "password1", "a@example.com"},
		{"bad username chars", "al ice", "password1", "a@example.com"},
		{"missing email", "alice", "password1", ""},
		{"bad email", "alice", "password1", "not-an-email"},
		{"missing password", "alice", "", "a@example.com"},
		{"short password", "alice", "short", "a@example.com"},
		{"long password", "alice", strings.Repeat("x", 73), "a@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tc.username, tc.password, tc.email)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestIdentityService_Register_Duplicate(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})
	f.register(t, "bob", "pw1", "bob@example.com")

	if _, err := f.svc.Register(context.Background(), "bob", "pw2", "other@example.com"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := f.svc.Register(context.Background(), "bobby", "pw2", "bob@example.com"); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, err := f.svc.Register(context.Background(), "BOB", "pw2", "bob2@example.com"); err != nil {
		t.Fatalf("usernames are case-sensitive by default, got %v", err)
	}
}

func TestIdentityService_Register_CaseInsensitiveUsernames(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{UsernameCaseInsensitive: true})
	f.register(t, "bob", "pw1", "bob@example.com")

	if _, err := f.svc.Register(context.Background(), "BOB", "pw2", "bob2@example.com"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "Bob", "pw1"); err != nil {
		t.Fatalf("expected case-insensitive login, got %v", err)
	}
}

func TestIdentityService_Login(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})
	user := f.register(t, "carol", "s3cret", "carol@example.com")

	pair, err := f.svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	id, err := f.tokens.Verify(pair.Access)
	if err != nil || id.UserID != user.ID {
		t.Fatalf("access token does not identify carol: %+v %v", id, err)
	}

	for _, creds := range [][2]string{{"carol", "wrong"}, {"nobody", "s3cret"}, {"", ""}} {
		if _, err := f.svc.Login(context.Background(), creds[0], creds[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("Login(%q): expected ErrInvalidCredentials, got %v", creds[0], err)
		}
	}
}

func TestIdentityService_Refresh(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})
	f.register(t, "dave", "pw1", "dave@example.com")
	pair, _ := f.svc.Login(context.Background(), "dave", "pw1")

	if _, err := f.svc.Refresh(context.Background(), pair.Refresh); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := f.svc.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIdentityService_Profile(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})
	user := f.register(t, "erin", "pw1", "erin@example.com")
	caller := domain.Identity{UserID: user.ID, Username: user.Username}

	if _, err := f.svc.GetProfile(context.Background(), domain.Anonymous); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	bio := "gopher"
	updated, err := f.svc.UpdateProfile(context.Background(), caller, domain.ProfileUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Bio != "gopher" || updated.Username != "erin" {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	got, err := f.svc.GetProfile(context.Background(), caller)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if got.Bio != "gopher" || got.Email != "erin@example.com" {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestIdentityService_PasswordReset_RoundTrip(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{FrontendURL: "http://front.test/"})
	sink := &stubActivitySink{}
	f.svc.WithActivitySink(sink)
	user := f.register(t, "frank", "old-pw", "frank@example.com")

	if err := f.svc.RequestPasswordReset(context.Background(), "frank@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if got := f.mail.sent[0]; got.To != "frank@example.com" || !strings.Contains(got.Body, "http://front.test/reset-password/") {
		t.Fatalf("unexpected reset mail: %+v", got)
	}

	uid, token := f.resetLink(t)
	if uid != EncodeUID(user.ID) {
		t.Fatalf("unexpected uid %q", uid)
	}

	if err := f.svc.ConfirmPasswordReset(context.Background(), uid, token, "new-pw"); err != nil {
		t.Fatalf("ConfirmPasswordReset returned error: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "frank", "new-pw"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "frank", "old-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}

	// A used token is stale once the password hash has changed.
	if err := f.svc.ConfirmPasswordReset(context.Background(), uid, token, "third-pw"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}

	want := []domain.ActivityKind{
		domain.ActivityRegistered,
		domain.ActivityPasswordResetRequest,
		domain.ActivityPasswordResetConfirm,
		domain.ActivityLoggedIn,
	}
	if len(sink.kinds) != len(want) {
		t.Fatalf("unexpected activity trail: %v", sink.kinds)
	}
	for i, k := range want {
		if sink.kinds[i] != k {
			t.Fatalf("activity[%d] = %s, want %s", i, sink.kinds[i], k)
		}
	}
}

func TestIdentityService_RequestPasswordReset_Validation(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})

	err := f.svc.RequestPasswordReset(context.Background(), "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Message != "Email is required" {
		t.Fatalf("expected 'Email is required', got %v", err)
	}
	err = f.svc.RequestPasswordReset(context.Background(), "nope")
	if !errors.As(err, &ve) || ve.Message != "Invalid email address" {
		t.Fatalf("expected 'Invalid email address', got %v", err)
	}
}

func TestIdentityService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})

	if err := f.svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("unknown email must not leak, got %v", err)
	}
	if len(f.mail.sent) != 0 {
		t.Fatalf("no mail expected, got %d", len(f.mail.sent))
	}
}

func TestIdentityService_RequestPasswordReset_Throttled(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})
	f.svc.WithResetThrottle(&stubThrottle{})
	f.register(t, "gina", "pw1", "gina@example.com")

	for i := 0; i < 3; i++ {
		if err := f.svc.RequestPasswordReset(context.Background(), "gina@example.com"); err != nil {
			t.Fatalf("request %d returned error: %v", i, err)
		}
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("expected one mail through the throttle, got %d", len(f.mail.sent))
	}
}

func TestIdentityService_RequestPasswordReset_ThrottleErrorFailsOpen(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})
	f.svc.WithResetThrottle(&stubThrottle{err: errors.New("redis down")})
	f.register(t, "hank", "pw1", "hank@example.com")

	if err := f.svc.RequestPasswordReset(context.Background(), "hank@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("expected mail despite throttle failure, got %d", len(f.mail.sent))
	}
}

func TestIdentityService_RequestPasswordReset_QueueFull(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})
	f.mail.full = true
	f.register(t, "ivy", "pw1", "ivy@example.com")

	if err := f.svc.RequestPasswordReset(context.Background(), "ivy@example.com"); err != nil {
		t.Fatalf("a dropped mail must not surface as an error, got %v", err)
	}
}

func TestIdentityService_ConfirmPasswordReset_Invalid(t *testing.T) {
	f := newIdentityFixture(IdentityConfig{})
	user := f.register(t, "jack", "pw1", "jack@example.com")

	cases := map[string][2]string{
		"bad uid":      {"!!", "token"},
		"unknown user": {EncodeUID(999), "token"},
		"bad token":    {EncodeUID(user.ID), "not-a-jwt"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if err := f.svc.ConfirmPasswordReset(context.Background(), c[0], c[1], "new-pw"); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	_ = f.svc.RequestPasswordReset(context.Background(), "jack@example.com")
	uid, token := f.resetLink(t)
	if err := f.svc.ConfirmPasswordReset(context.Background(), uid, token, ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty password, got %v", err)
	}
}
