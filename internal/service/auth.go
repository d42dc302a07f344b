package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nyaysetu/nyaysetu/internal/auth"
	"github.com/nyaysetu/nyaysetu/internal/mailer"
	"github.com/nyaysetu/nyaysetu/internal/metrics"
	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/repository"
)

const (
	maxEmailLength     = 254
	defaultMailTimeout = 10 * time.Second
	tokenTypeBearer    = "Bearer"
)

// AuthConfig holds token lifetimes for the auth lifecycle.
type AuthConfig struct {
	VerifyTTL   time.Duration
	SessionTTL  time.Duration
	MailTimeout time.Duration
}

// RegisterResult describes a new pending account. A mail failure does not
// undo the registration; it is reported here instead.
type RegisterResult struct {
	User          *model.User
	MailDelivered bool
	MailError     error
}

// Session is an issued session token.
type Session struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// LogoutAck reports whether the session was actually revoked. Revoked is false
// when the denylist was unreachable; the token then stays valid until expiry.
type LogoutAck struct {
	Revoked bool
}

// AuthService runs registration, confirmation, login and logout.
type AuthService struct {
	users    UserStore
	tokens   *auth.TokenService
	mail     VerificationSender
	denylist SessionDenylist
	cfg      AuthConfig
	metrics  metrics.Recorder
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewAuthService creates a new AuthService. denylist may be nil, in which case
// logout is acknowledged but never revokes anything.
func NewAuthService(users UserStore, tokens *auth.TokenService, mail VerificationSender, denylist SessionDenylist, cfg AuthConfig, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = defaultMailTimeout
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		mail:     mail,
		denylist: denylist,
		cfg:      cfg,
		metrics:  recorder,
		logger:   logger.With("component", "auth"),
		validate: validator.New(),
		now:      time.Now,
	}
}

// Register creates a pending account and sends the verification link.
func (s *AuthService) Register(ctx context.Context, email, password string) (*RegisterResult, error) {
	email = model.NormalizeEmail(email)
	if err := s.validateEmail(email); err != nil {
		s.metrics.IncRegistration("invalid")
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.metrics.IncRegistration("invalid")
		if errors.Is(err, auth.ErrInvalidPassword) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Status:       model.UserStatusPending,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncRegistration("conflict")
			return nil, ErrAlreadyRegistered
		}
		s.metrics.IncRegistration("error")
		return nil, unavailable("user store", err)
	}
	s.metrics.IncRegistration("created")

	result := &RegisterResult{User: user}
	result.MailError = s.sendVerification(ctx, email)
	result.MailDelivered = result.MailError == nil

	switch {
	case result.MailDelivered:
		s.metrics.IncMailDelivery("sent")
	case errors.Is(result.MailError, mailer.ErrManualDelivery):
		s.metrics.IncMailDelivery("manual")
	default:
		s.metrics.IncMailDelivery("failed")
	}

	s.logger.InfoContext(ctx, "user registered",
		"email", model.MaskEmail(email),
		"mail_sent", result.MailDelivered,
	)
	return result, nil
}

// sendVerification outlives a canceled request: the row is already written.
func (s *AuthService) sendVerification(ctx context.Context, email string) error {
	token, err := s.tokens.Issue(email, auth.PurposeVerify, s.cfg.VerifyTTL)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.MailTimeout)
	defer cancel()
	return s.mail.SendVerification(mailCtx, email, token.Value)
}

// ResendVerification mails a fresh verification link to a pending account.
// The result never says whether the address is registered: unknown and
// already verified addresses, and mail failures, all return nil. Only a
// malformed address or an unreachable user store is an error.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	if err := s.validateEmail(email); err != nil {
		s.metrics.IncVerification("resend_invalid")
		return err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		s.metrics.IncVerification("resend_ignored")
		return nil
	case err != nil:
		s.metrics.IncVerification("error")
		return unavailable("user store", err)
	case user.IsVerified():
		s.metrics.IncVerification("resend_ignored")
		return nil
	}

	s.metrics.IncVerification("resent")
	err = s.sendVerification(ctx, email)
	switch {
	case err == nil:
		s.metrics.IncMailDelivery("sent")
	case errors.Is(err, mailer.ErrManualDelivery):
		s.metrics.IncMailDelivery("manual")
	default:
		s.metrics.IncMailDelivery("failed")
		s.logger.WarnContext(ctx, "verification resend failed",
			"email", model.MaskEmail(email),
			"error", err,
		)
	}
	return nil
}

// Confirm consumes a verification token. Under concurrent confirmations of
// the same account exactly one call returns nil; the rest see ErrAlreadyVerified.
func (s *AuthService) Confirm(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(strings.TrimSpace(token), auth.PurposeVerify)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			s.metrics.IncVerification("expired")
			return ErrVerificationExpired
		}
		s.metrics.IncVerification("invalid")
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	err = s.users.MarkUserVerified(ctx, claims.Subject, s.now().UTC())
	switch {
	case err == nil:
		s.metrics.IncVerification("verified")
		s.logger.InfoContext(ctx, "user verified", "email", model.MaskEmail(claims.Subject))
		return nil
	case errors.Is(err, repository.ErrAlreadyVerified):
		s.metrics.IncVerification("already_verified")
		return ErrAlreadyVerified
	case errors.Is(err, repository.ErrUserNotFound):
		s.metrics.IncVerification("unknown_user")
		return ErrUnknownUser
	default:
		s.metrics.IncVerification("error")
		return unavailable("user store", err)
	}
}

// Login issues a session token. Unknown addresses and wrong passwords are
// indistinguishable: both run one password verification and return
// ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = model.NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = auth.VerifyPassword(password, auth.DummyHash())
			s.metrics.IncLogin("unauthenticated")
			return nil, ErrUnauthenticated
		}
		s.metrics.IncLogin("error")
		return nil, unavailable("user store", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.metrics.IncLogin("error")
		s.logger.ErrorContext(ctx, "stored password hash unreadable",
			"email", model.MaskEmail(email),
			"error", err,
		)
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin("unauthenticated")
		return nil, ErrUnauthenticated
	}
	if !user.IsVerified() {
		s.metrics.IncLogin("not_verified")
		return nil, ErrNotVerified
	}

	token, err := s.tokens.Issue(email, auth.PurposeSession, s.cfg.SessionTTL)
	if err != nil {
		s.metrics.IncLogin("error")
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.metrics.IncLogin("success")
	return &Session{
		Token:     token.Value,
		TokenType: tokenTypeBearer,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Authenticate resolves a session token to its principal. A token that was
// logged out is rejected; when the denylist cannot be read the token is
// accepted and the outage logged.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Principal, error) {
	claims, err := s.tokens.Verify(token, auth.PurposeSession)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsSessionRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "session denylist unavailable, accepting token", "error", err)
		} else if revoked {
			return nil, fmt.Errorf("%w: session logged out", ErrUnauthenticated)
		}
	}

	return &model.Principal{
		Email:     claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// CurrentUser returns the account behind a session token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	principal, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthenticated)
		}
		return nil, unavailable("user store", err)
	}
	return user, nil
}

// Logout is best effort. Session tokens are stateless, so the only way to end
// one early is to denylist its ID until it would have expired anyway. If the
// denylist is unreachable the call still succeeds with Revoked=false.
func (s *AuthService) Logout(ctx context.Context, token string) (LogoutAck, error) {
	claims, err := s.tokens.Verify(token, auth.PurposeSession)
	if err != nil {
		return LogoutAck{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if s.denylist == nil {
		s.metrics.IncLogout("degraded")
		return LogoutAck{}, nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.denylist.RevokeSession(ctx, claims.ID, ttl); err != nil {
		s.metrics.IncLogout("degraded")
		s.logger.WarnContext(ctx, "logout not recorded, token stays valid until expiry",
			"email", model.MaskEmail(claims.Subject),
			"expires_at", claims.ExpiresAt.Time,
			"error", err,
		)
		return LogoutAck{}, nil
	}

	s.metrics.IncLogout("revoked")
	return LogoutAck{Revoked: true}, nil
}

func (s *AuthService) validateEmail(email string) error {
	if email == "" {
		return validationError("email is required")
	}
	if len(email) > maxEmailLength {
		return validationError("email longer than %d characters", maxEmailLength)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return validationError("email is not a valid address")
	}
	return nil
}
