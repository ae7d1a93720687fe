package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpad/inkpad-api/internal/api/metrics"
	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

const (
	maxUsernameLength = 150
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	validate        = validator.New()
)

var resetMailTemplate = template.Must(template.New("reset").Parse(
	`Hello {{.Username}},

You're receiving this email because you requested a password reset for your
user account.

Please go to the following page and choose a new password:

{{.Link}}

If you did not request this, you can ignore this email.
`))

// IdentityConfig tunes registration and reset behaviour.
type IdentityConfig struct {
	PasswordMinLength       int
	UsernameCaseInsensitive bool
	// FrontendURL is the base of the link embedded in reset mail.
	FrontendURL string
}

// IdentityService implements registration, login, profile and password reset.
type IdentityService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	tokens   ports.TokenIssuer
	mail     ports.MailQueue
	throttle ports.ResetThrottle
	activity ports.ActivitySink
	cfg      IdentityConfig
	log      zerolog.Logger
}

func NewIdentityService(
	users ports.UserRepository,
	profiles ports.ProfileRepository,
	tokens ports.TokenIssuer,
	mail ports.MailQueue,
	cfg IdentityConfig,
	log zerolog.Logger,
) *IdentityService {
	if cfg.PasswordMinLength <= 0 {
		cfg.PasswordMinLength = 1
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &IdentityService{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		mail:     mail,
		cfg:      cfg,
		log:      log,
	}
}

// WithResetThrottle limits reset mail per address. Optional.
func (s *IdentityService) WithResetThrottle(t ports.ResetThrottle) *IdentityService {
	s.throttle = t
	return s
}

// WithActivitySink enables the account audit trail. Optional.
func (s *IdentityService) WithActivitySink(a ports.ActivitySink) *IdentityService {
	s.activity = a
	return s
}

var _ ports.IdentityService = (*IdentityService)(nil)

func (s *IdentityService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if validate.Var(email, "email") != nil {
		return nil, domain.NewValidationError("enter a valid email address")
	}
	if err := s.checkPassword(password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsername(ctx, username, s.cfg.UsernameCaseInsensitive)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}
	exists, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	s.record(ctx, created, domain.ActivityRegistered)
	s.log.Info().Uint("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *IdentityService) Login(ctx context.Context, username, password string) (ports.TokenPair, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return ports.TokenPair{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username, s.cfg.UsernameCaseInsensitive)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return ports.TokenPair{}, domain.ErrInvalidCredentials
		}
		return ports.TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return ports.TokenPair{}, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return ports.TokenPair{}, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(ctx, user, domain.ActivityLoggedIn)
	return pair, nil
}

func (s *IdentityService) Refresh(_ context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", domain.ErrInvalidToken
	}
	return s.tokens.Refresh(refresh)
}

func (s *IdentityService) GetProfile(ctx context.Context, id domain.Identity) (*domain.Profile, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	return s.profiles.FindByUserID(ctx, id.UserID)
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *IdentityService) UpdateProfile(ctx context.Context, id domain.Identity, upd domain.ProfileUpdate) (*domain.Profile, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	profile, err := s.profiles.FindByUserID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	upd.Apply(profile)
	profile.UpdatedAt = time.Now().UTC()
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	s.record(ctx, &domain.User{ID: id.UserID, Username: id.Username}, domain.ActivityProfileUpdated)
	return profile, nil
}

// RequestPasswordReset sends a reset link when email matches an account. The
// outcome is indistinguishable to the caller whether or not it matched.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.NewValidationError("Email is required")
	}
	if validate.Var(email, "email") != nil {
		return domain.NewValidationError("Invalid email address")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PasswordResetRequestsTotal.WithLabelValues("unknown_email").Inc()
			s.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("reset throttle check failed, sending anyway")
		} else if !allowed {
			metrics.PasswordResetRequestsTotal.WithLabelValues("throttled").Inc()
			s.log.Info().Uint("user_id", user.ID).Msg("password reset throttled")
			return nil
		}
	}

	uid, token, err := s.tokens.IssueResetToken(user)
	if err != nil {
		return err
	}

	msg, err := s.resetMessage(user, uid, token)
	if err != nil {
		return err
	}
	if !s.mail.Enqueue(msg) {
		metrics.PasswordResetRequestsTotal.WithLabelValues("dropped").Inc()
		s.log.Warn().Uint("user_id", user.ID).Msg("reset mail dropped: queue full")
		return nil
	}

	metrics.PasswordResetRequestsTotal.WithLabelValues("sent").Inc()
	s.record(ctx, user, domain.ActivityPasswordResetRequest)
	return nil
}

// ConfirmPasswordReset sets a new password when uid and token check out.
// Every lookup or verification failure collapses into domain.ErrInvalidToken.
func (s *IdentityService) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	userID, err := s.tokens.DecodeUID(uid)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("invalid_token").Inc()
		return domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PasswordResetsTotal.WithLabelValues("invalid_token").Inc()
			return domain.ErrInvalidToken
		}
		return err
	}

	if err := s.tokens.VerifyResetToken(user, token); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("invalid_token").Inc()
		return domain.ErrInvalidToken
	}

	if err := s.checkPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("confirm reset: %w", err)
	}

	metrics.PasswordResetsTotal.WithLabelValues("success").Inc()
	s.record(ctx, user, domain.ActivityPasswordResetConfirm)
	s.log.Info().Uint("user_id", user.ID).Msg("password reset confirmed")
	return nil
}

func (s *IdentityService) checkPassword(password string) error {
	if password == "" {
		return domain.NewValidationError("password is required")
	}
	if len(password) < s.cfg.PasswordMinLength {
		return domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", s.cfg.PasswordMinLength))
	}
	if len(password) > maxPasswordBytes {
		return domain.NewValidationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

func (s *IdentityService) resetMessage(user *domain.User, uid, token string) (domain.MailMessage, error) {
	var body bytes.Buffer
	err := resetMailTemplate.Execute(&body, struct {
		Username string
		Link     string
	}{
		Username: user.Username,
		Link:     fmt.Sprintf("%s/reset-password/%s/%s", s.cfg.FrontendURL, uid, token),
	})
	if err != nil {
		return domain.MailMessage{}, fmt.Errorf("render reset mail: %w", err)
	}
	return domain.MailMessage{
		To:      user.Email,
		Subject: "Password reset",
		Body:    body.String(),
	}, nil
}

// record writes an audit entry; failures are logged and swallowed.
func (s *IdentityService) record(ctx context.Context, user *domain.User, kind domain.ActivityKind) {
	if s.activity == nil {
		return
	}
	err := s.activity.Record(ctx, domain.Activity{
		UserID:     user.ID,
		Username:   user.Username,
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", user.ID).Str("kind", string(kind)).Msg("failed to record activity")
	}
}

func validateUsername(username string) error {
	switch {
	case username == "":
		return domain.NewValidationError("username is required")
	case len(username) > maxUsernameLength:
		return domain.NewValidationError(fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	case !usernamePattern.MatchString(username):
		return domain.NewValidationError("username may contain only letters, numbers, and @/./+/-/_ characters")
	}
	return nil
}

// normalizeEmail trims the address and lower-cases its domain part.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
