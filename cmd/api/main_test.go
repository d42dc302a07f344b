package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nyaysetu/nyaysetu/internal/config"
	"github.com/nyaysetu/nyaysetu/internal/handler"
	"github.com/nyaysetu/nyaysetu/internal/metrics"
	"github.com/nyaysetu/nyaysetu/internal/model"
)

type rejectAll struct{}

func (rejectAll) Authenticate(context.Context, string) (*model.Principal, error) {
	return nil, errors.New("rejected")
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		AppEnv:             "development",
		MaxRequestBodySize: 1 << 10,
	}
	h := routes{
		root:    handler.New(),
		health:  handler.NewHealthHandler(nil, nil, false, logger),
		metrics: handler.NewMetricsHandler(metrics.NewPrometheus()),
		auth:    handler.NewAuthHandler(nil, logger),
		chat:    handler.NewChatHandler(nil, logger),
		forms:   handler.NewFormHandler(nil, logger),
		history: handler.NewHistoryHandler(nil, logger),
	}
	return setupRouter(h, rejectAll{}, nil, metrics.NewNoop(), cfg, logger)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"/", "/healthz", "/readyz", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
}

func TestRouter_ProtectedEndpointsRequireSession(t *testing.T) {
	r := testRouter(t)

	tests := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/chat"},
		{http.MethodGet, "/api/v1/forms"},
		{http.MethodPost, "/api/v1/forms"},
		{http.MethodGet, "/api/v1/forms/FIR/fields"},
		{http.MethodGet, "/api/v1/data/chats"},
		{http.MethodGet, "/api/v1/data/forms"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/auth/me"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer a.b.c")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tt.method, tt.path)
		assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
	}
}

func TestRouter_ResendVerificationIsPublic(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify/resend", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INVALID_REQUEST"`)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(strings.Repeat("x", 2048)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"postgres://nyay:s3cret@db:5432/nyaysetu", "postgres://nyay@db:5432/nyaysetu"},
		{"redis://:hunter2@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"amqp://guest:guest@mq:5672/", "amqp://guest@mq:5672/"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	dsn := "postgres://nyay:s3cret@db:5432/nyaysetu"
	err := errors.New("cannot parse " + dsn + ": password=s3cret invalid")

	got := sanitizeError(err, dsn)
	if strings.Contains(got, "s3cret") {
		t.Errorf("sanitizeError leaked secret: %s", got)
	}
}
