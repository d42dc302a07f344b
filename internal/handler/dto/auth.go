package dto

import (
	"time"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// RegisterResponse describes a pending account.
type RegisterResponse struct {
	Status   string `json:"status"`
	Email    string `json:"email"`
	MailSent bool   `json:"mail_sent"`
	Message  string `json:"message"`
}

// ResendVerificationRequest asks for a fresh verification link.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,max=254"`
}

// ResendVerificationResponse is identical for every well-formed address.
type ResendVerificationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// LoginRequest represents the request body for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginResponse carries an issued session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LogoutResponse reports whether the session was revoked server-side.
type LogoutResponse struct {
	Status  string `json:"status"`
	Revoked bool   `json:"revoked"`
}

// UserResponse represents the signed-in account.
type UserResponse struct {
	Email      string     `json:"email"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		Email:      u.Email,
		Status:     string(u.Status),
		CreatedAt:  u.CreatedAt,
		VerifiedAt: u.VerifiedAt,
	}
}
