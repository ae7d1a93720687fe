package service

import (
	"errors"
	"testing"
	"time"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

func newTestTokenService() *TokenService {
	return NewTokenService(TokenConfig{Secret: "secret", ResetSecret: "reset-secret"})
}

func TestTokenService_IssuePairAndVerify(t *testing.T) {
	svc := newTestTokenService()
	user := &domain.User{ID: 7, Username: "alice"}

	pair, err := svc.IssuePair(user)
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" || pair.Access == pair.Refresh {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	id, err := svc.Verify(pair.Access)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id.UserID != 7 || id.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	if _, err := svc.Verify(pair.Refresh); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("refresh token must not verify as access, got %v", err)
	}
}

func TestTokenService_Refresh(t *testing.T) {
	svc := newTestTokenService()
	pair, _ := svc.IssuePair(&domain.User{ID: 3, Username: "bob"})

	access, err := svc.Refresh(pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	id, err := svc.Verify(access)
	if err != nil || id.UserID != 3 {
		t.Fatalf("refreshed access token invalid: %+v %v", id, err)
	}

	if _, err := svc.Refresh(pair.Access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token must not be accepted as refresh, got %v", err)
	}
	if _, err := svc.Refresh("garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", AccessTTL: time.Minute})
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	pair, err := svc.IssuePair(&domain.User{ID: 1, Username: "alice"})
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := svc.Verify(pair.Access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
	if _, err := svc.Refresh(pair.Refresh); err != nil {
		t.Fatalf("refresh token should still be valid: %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	pair, _ := newTestTokenService().IssuePair(&domain.User{ID: 1, Username: "alice"})
	other := NewTokenService(TokenConfig{Secret: "other"})

	if _, err := other.Verify(pair.Access); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_ResetToken(t *testing.T) {
	svc := newTestTokenService()
	user := &domain.User{ID: 42, Username: "alice", PasswordHash: "hash-1"}

	uid, token, err := svc.IssueResetToken(user)
	if err != nil {
		t.Fatalf("IssueResetToken returned error: %v", err)
	}
	if uid != "NDI" {
		t.Fatalf("unexpected uid %q", uid)
	}

	decoded, err := svc.DecodeUID(uid)
	if err != nil || decoded != 42 {
		t.Fatalf("DecodeUID = %d, %v", decoded, err)
	}
	if err := svc.VerifyResetToken(user, token); err != nil {
		t.Fatalf("VerifyResetToken returned error: %v", err)
	}

	other := &domain.User{ID: 43, Username: "bob", PasswordHash: "hash-1"}
	if err := svc.VerifyResetToken(other, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("token must be bound to its user, got %v", err)
	}

	user.PasswordHash = "hash-2"
	if err := svc.VerifyResetToken(user, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("token must go stale after a password change, got %v", err)
	}
}

func TestTokenService_DecodeUID_Invalid(t *testing.T) {
	svc := newTestTokenService()
	for _, uid := range []string{"", "!!", EncodeUID(0), "YWJj"} {
		if _, err := svc.DecodeUID(uid); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("DecodeUID(%q): expected ErrInvalidToken, got %v", uid, err)
		}
	}
}
