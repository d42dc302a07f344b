// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
)

// Service errors. Handlers map each of these to one HTTP status.
var (
	ErrValidation            = errors.New("validation failed")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrAlreadyRegistered     = errors.New("email already registered")
	ErrNotVerified           = errors.New("email not verified")
	ErrAlreadyVerified       = errors.New("email already verified")
	ErrUnknownUser           = errors.New("unknown user")
	ErrVerificationExpired   = errors.New("verification link has expired, request a new one at POST /api/v1/auth/verify/resend")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDependencyUnavailable, what, err)
}
