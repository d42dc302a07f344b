package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrAlreadyVerified = errors.New("user already verified")
)

// CreateUser inserts a new user. The email column is the primary key, so a
// second insert for the same address fails with ErrEmailExists regardless of status.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (email, password_hash, status, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		user.Email,
		user.PasswordHash,
		string(user.Status),
		user.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their normalized email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT email, password_hash, status, created_at, verified_at
		FROM users
		WHERE email = $1
	`

	var (
		user   model.User
		status string
	)
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.Email,
		&user.PasswordHash,
		&status,
		&user.CreatedAt,
		&user.VerifiedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	user.Status = model.UserStatus(status)
	return &user, nil
}

// MarkUserVerified flips a pending user to verified. The conditional update is
// the compare-and-set: under concurrent calls exactly one sees a nil error and
// the rest see ErrAlreadyVerified.
func (r *Repository) MarkUserVerified(ctx context.Context, email string, at time.Time) error {
	query := `
		UPDATE users
		SET status = 'verified', verified_at = $2
		WHERE email = $1 AND status = 'pending'
	`

	tag, err := r.db.Exec(ctx, query, email, at)
	if err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing changed: either the row is missing or it was already verified.
	if _, err := r.GetUserByEmail(ctx, email); err != nil {
		return err
	}
	return ErrAlreadyVerified
}
