package service

import (
	"context"
	"time"

	"github.com/nyaysetu/nyaysetu/internal/gemini"
	"github.com/nyaysetu/nyaysetu/internal/model"
)

// UserStore persists accounts. *repository.Repository implements it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	MarkUserVerified(ctx context.Context, email string, at time.Time) error
}

// HistoryStore persists chat exchanges and forms. *repository.Repository implements it.
type HistoryStore interface {
	InsertChatExchange(ctx context.Context, ex *model.ChatExchange) error
	ListChatExchanges(ctx context.Context, owner string, filter model.HistoryFilter, cursor string) ([]*model.ChatExchange, string, error)
	InsertFormArtifact(ctx context.Context, form *model.FormArtifact) error
	ListFormArtifacts(ctx context.Context, owner string, filter model.HistoryFilter, cursor string) ([]*model.FormArtifact, string, error)
}

// SessionDenylist remembers logged-out session token IDs. *cache.Cache implements it.
type SessionDenylist interface {
	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

// VerificationSender delivers confirmation links. *mailer.Mailer implements it.
type VerificationSender interface {
	SendVerification(ctx context.Context, email, token string) error
}

// Generator produces remote answers. *gemini.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) gemini.Outcome
}
