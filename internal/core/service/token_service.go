package service

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkpad/inkpad-api/internal/api/metrics"
	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeReset   = "reset"
)

// TokenConfig contains the secrets and lifetimes used by TokenService.
type TokenConfig struct {
	Secret      string
	ResetSecret string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	ResetTTL    time.Duration
}

// tokenClaims is the payload of every token we sign.
type tokenClaims struct {
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 JWTs.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = 72 * time.Hour
	}
	if cfg.ResetSecret == "" {
		cfg.ResetSecret = cfg.Secret
	}
	return &TokenService{cfg: cfg, now: time.Now}
}

var _ ports.TokenIssuer = (*TokenService)(nil)

// IssuePair returns a fresh access/refresh pair for user.
func (s *TokenService) IssuePair(user *domain.User) (ports.TokenPair, error) {
	access, err := s.sign(user.ID, user.Username, tokenTypeAccess, s.cfg.AccessTTL, s.cfg.Secret)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := s.sign(user.ID, user.Username, tokenTypeRefresh, s.cfg.RefreshTTL, s.cfg.Secret)
	if err != nil {
		return ports.TokenPair{}, err
	}
	metrics.TokensIssuedTotal.WithLabelValues(tokenTypeAccess).Inc()
	metrics.TokensIssuedTotal.WithLabelValues(tokenTypeRefresh).Inc()
	return ports.TokenPair{Access: access, Refresh: refresh}, nil
}

// Verify checks an access token and returns the identity it carries.
func (s *TokenService) Verify(access string) (domain.Identity, error) {
	claims, err := s.parse(access, s.cfg.Secret)
	if err != nil || claims.TokenType != tokenTypeAccess {
		return domain.Anonymous, domain.ErrInvalidToken
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return domain.Anonymous, domain.ErrInvalidToken
	}
	return domain.Identity{UserID: uint(uid), Username: claims.Username}, nil
}

// Refresh mints a new access token from a valid refresh token.
func (s *TokenService) Refresh(refresh string) (string, error) {
	claims, err := s.parse(refresh, s.cfg.Secret)
	if err != nil || claims.TokenType != tokenTypeRefresh {
		return "", domain.ErrInvalidToken
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return "", domain.ErrInvalidToken
	}
	access, err := s.sign(uint(uid), claims.Username, tokenTypeAccess, s.cfg.AccessTTL, s.cfg.Secret)
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(tokenTypeAccess).Inc()
	return access, nil
}

// IssueResetToken signs a reset token with a key derived from the user's
// current password hash, so any password change invalidates it.
func (s *TokenService) IssueResetToken(user *domain.User) (string, string, error) {
	token, err := s.sign(user.ID, "", tokenTypeReset, s.cfg.ResetTTL, s.resetKey(user))
	if err != nil {
		return "", "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(tokenTypeReset).Inc()
	return EncodeUID(user.ID), token, nil
}

// VerifyResetToken checks token against the user's current state.
func (s *TokenService) VerifyResetToken(user *domain.User, token string) error {
	claims, err := s.parse(token, s.resetKey(user))
	if err != nil || claims.TokenType != tokenTypeReset {
		return domain.ErrInvalidToken
	}
	if claims.Subject != strconv.FormatUint(uint64(user.ID), 10) {
		return domain.ErrInvalidToken
	}
	return nil
}

// DecodeUID reverses EncodeUID.
func (s *TokenService) DecodeUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uid, "="))
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidToken
	}
	return uint(id), nil
}

// EncodeUID renders a user id as unpadded URL-safe base64 of its decimal form.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

func (s *TokenService) resetKey(user *domain.User) string {
	return s.cfg.ResetSecret + ":" + user.PasswordHash
}

func (s *TokenService) sign(userID uint, username, tokenType string, ttl time.Duration, key string) (string, error) {
	now := s.now()
	claims := &tokenClaims{
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(key))
}

func (s *TokenService) parse(raw, key string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(key), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("token not valid")
	}
	return claims, nil
}
