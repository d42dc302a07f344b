// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// UserStatus tracks email verification.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusVerified UserStatus = "verified"
)

// User is identified by its normalized email.
type User struct {
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
}

// IsVerified reports whether the user may obtain a session.
func (u *User) IsVerified() bool {
	return u.Status == UserStatusVerified
}

// Principal is the caller resolved from a session token.
type Principal struct {
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskEmail keeps the first character of the local part and the domain, for logs.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
