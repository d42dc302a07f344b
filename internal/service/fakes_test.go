package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nyaysetu/nyaysetu/internal/gemini"
	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUsers mimics the repository, including its compare-and-set verify.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
	err   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*model.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[user.Email]; ok {
		return repository.ErrEmailExists
	}
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) MarkUserVerified(_ context.Context, email string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[email]
	if !ok {
		return repository.ErrUserNotFound
	}
	if u.Status == model.UserStatusVerified {
		return repository.ErrAlreadyVerified
	}
	u.Status = model.UserStatusVerified
	u.VerifiedAt = &at
	return nil
}

type fakeMailer struct {
	mu     sync.Mutex
	tokens map[string]string
	sends  int
	err    error
}

func (f *fakeMailer) SendVerification(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokens == nil {
		f.tokens = map[string]string{}
	}
	f.tokens[email] = token
	f.sends++
	return f.err
}

func (f *fakeMailer) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sends
}

func (f *fakeMailer) tokenFor(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[email]
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func (f *fakeDenylist) RevokeSession(_ context.Context, id string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[id] = ttl
	return nil
}

func (f *fakeDenylist) IsSessionRevoked(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[id]
	return ok, nil
}

type fakeHistory struct {
	mu       sync.Mutex
	chats    []*model.ChatExchange
	forms    []*model.FormArtifact
	writeErr error
	listErr  error
	ctxErr   error
}

func (f *fakeHistory) InsertChatExchange(ctx context.Context, ex *model.ChatExchange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErr = ctx.Err()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.chats = append(f.chats, ex)
	return nil
}

func (f *fakeHistory) ListChatExchanges(_ context.Context, owner string, _ model.HistoryFilter, _ string) ([]*model.ChatExchange, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, "", f.listErr
	}
	var out []*model.ChatExchange
	for _, ex := range f.chats {
		if ex.Owner == owner {
			out = append(out, ex)
		}
	}
	return out, "", nil
}

func (f *fakeHistory) InsertFormArtifact(ctx context.Context, form *model.FormArtifact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErr = ctx.Err()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.forms = append(f.forms, form)
	return nil
}

func (f *fakeHistory) ListFormArtifacts(_ context.Context, owner string, _ model.HistoryFilter, _ string) ([]*model.FormArtifact, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, "", f.listErr
	}
	var out []*model.FormArtifact
	for _, form := range f.forms {
		if form.Owner == owner {
			out = append(out, form)
		}
	}
	return out, "", nil
}

type fakeGenerator struct {
	outcome gemini.Outcome
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) gemini.Outcome {
	f.prompts = append(f.prompts, prompt)
	return f.outcome
}

func failing(reason gemini.Reason) *fakeGenerator {
	return &fakeGenerator{outcome: gemini.Outcome{
		Failure: &gemini.Failure{Reason: reason, Err: errors.New(string(reason))},
	}}
}

type fakeArchive struct {
	key string
	err error
}

func (f *fakeArchive) Store(context.Context, *model.FormArtifact) (string, error) {
	return f.key, f.err
}
