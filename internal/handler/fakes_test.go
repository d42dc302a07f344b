package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/nyaysetu/nyaysetu/internal/auth"
	"github.com/nyaysetu/nyaysetu/internal/legal"
	"github.com/nyaysetu/nyaysetu/internal/model"
	"github.com/nyaysetu/nyaysetu/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// jsonRequest builds a request with body, signed in as owner when owner is set.
func jsonRequest(method, target, body, owner string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req = req.WithContext(auth.ContextWithPrincipal(req.Context(), &model.Principal{Email: owner}))
	}
	return req
}

type stubAuth struct {
	register    func(email, password string) (*service.RegisterResult, error)
	confirm     func(token string) error
	resend      func(email string) error
	login       func(email, password string) (*service.Session, error)
	logout      func(token string) (service.LogoutAck, error)
	currentUser func(token string) (*model.User, error)
}

func (s *stubAuth) Register(_ context.Context, email, password string) (*service.RegisterResult, error) {
	return s.register(email, password)
}

func (s *stubAuth) Confirm(_ context.Context, token string) error {
	return s.confirm(token)
}

func (s *stubAuth) ResendVerification(_ context.Context, email string) error {
	return s.resend(email)
}

func (s *stubAuth) Login(_ context.Context, email, password string) (*service.Session, error) {
	return s.login(email, password)
}

func (s *stubAuth) Logout(_ context.Context, token string) (service.LogoutAck, error) {
	return s.logout(token)
}

func (s *stubAuth) CurrentUser(_ context.Context, token string) (*model.User, error) {
	return s.currentUser(token)
}

type stubAnswerer struct {
	owner, question, language string
	calls                     int
	source                    model.AnswerSource
}

func (s *stubAnswerer) Answer(_ context.Context, owner, question, language string) *model.ChatExchange {
	s.calls++
	s.owner, s.question, s.language = owner, question, language
	lang := language
	if lang == "" {
		lang = "en"
	}
	source := s.source
	if source == "" {
		source = model.SourceFallback
	}
	return &model.ChatExchange{
		ID:       "01J0000000000000000000000",
		Owner:    owner,
		Question: question,
		Language: lang,
		Answer:   "Consult the District Legal Services Authority.",
		Source:   source,
	}
}

type stubForms struct {
	owner     string
	responses map[string]string
	generate  func(formType string) (*model.FormArtifact, error)
}

func (s *stubForms) Types() []string { return legal.FormTypes() }

func (s *stubForms) Fields(formType string) (*legal.FormTemplate, error) {
	return service.NewFormService(nil, nil, nil, testLogger()).Fields(formType)
}

func (s *stubForms) Generate(_ context.Context, owner, formType string, responses map[string]string) (*model.FormArtifact, error) {
	s.owner, s.responses = owner, responses
	return s.generate(formType)
}

type stubHistory struct {
	owner  string
	filter model.HistoryFilter
	cursor string
	chats  *service.ChatPage
	forms  *service.FormPage
	err    error
}

func (s *stubHistory) ListChats(_ context.Context, owner string, filter model.HistoryFilter, cursor string) (*service.ChatPage, error) {
	s.owner, s.filter, s.cursor = owner, filter, cursor
	return s.chats, s.err
}

func (s *stubHistory) ListForms(_ context.Context, owner string, filter model.HistoryFilter, cursor string) (*service.FormPage, error) {
	s.owner, s.filter, s.cursor = owner, filter, cursor
	return s.forms, s.err
}
