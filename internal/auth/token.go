package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Purpose separates verification tokens from session tokens.
type Purpose string

const (
	PurposeVerify  Purpose = "verify"
	PurposeSession Purpose = "session"
)

const defaultIssuer = "nyaysetu"

var (
	// ErrConfiguration is returned when the token service cannot be built.
	ErrConfiguration = errors.New("configuration error")
	// ErrTokenExpired is returned for a well-signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrPurposeMismatch is returned when a token is presented for the wrong use.
	ErrPurposeMismatch = errors.New("token purpose mismatch")
	// ErrTokenInvalid covers bad signatures, foreign algorithms and garbage input.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload carried by every token.
type Claims struct {
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Token is a freshly minted token together with the fields callers need.
type Token struct {
	Value     string
	ID        string
	Subject   string
	Purpose   Purpose
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 tokens. It holds no mutable state.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, mainly for tests around expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// WithIssuer overrides the iss claim.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) {
		s.issuer = issuer
	}
}

// NewTokenService returns ErrConfiguration when secret is empty.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: token signing secret is empty", ErrConfiguration)
	}

	s := &TokenService{
		secret: []byte(secret),
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue mints a token for subject with the given purpose and lifetime.
func (s *TokenService) Issue(subject string, purpose Purpose, ttl time.Duration) (Token, error) {
	if subject == "" {
		return Token{}, errors.New("token subject is empty")
	}
	if ttl <= 0 {
		return Token{}, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	// exp carries whole seconds. Rounding it up keeps a token valid for at
	// least ttl; rounding down would cut up to a second off the end.
	issued := s.now().UTC()
	now := issued.Truncate(time.Second)
	expiresAt := issued.Add(ttl).Add(time.Second - 1).Truncate(time.Second)
	id := ulid.Make().String()

	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Token{
		Value:     signed,
		ID:        id,
		Subject:   subject,
		Purpose:   purpose,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature, expiry and purpose, in that order, and returns the
// claims. Every failure is one of ErrTokenInvalid, ErrTokenExpired or
// ErrPurposeMismatch.
func (s *TokenService) Verify(tokenString string, expected Purpose) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenInvalid)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject or id", ErrTokenInvalid)
	}
	if claims.Purpose != expected {
		return nil, ErrPurposeMismatch
	}

	return claims, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return s.secret, nil
}
