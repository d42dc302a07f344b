package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyaysetu/nyaysetu/internal/auth"
	"github.com/nyaysetu/nyaysetu/internal/cache"
	"github.com/nyaysetu/nyaysetu/internal/metrics"
	"github.com/nyaysetu/nyaysetu/internal/model"
)

type stubLimiter struct {
	result *cache.RateLimitResult
	err    error
	ips    []string
	users  []string
}

func (s *stubLimiter) CheckIPRateLimit(_ context.Context, ip string, _ float64, _ int) (*cache.RateLimitResult, error) {
	s.ips = append(s.ips, ip)
	return s.result, s.err
}

func (s *stubLimiter) CheckUserRateLimit(_ context.Context, email string, _, _ int) (*cache.RateLimitResult, error) {
	s.users = append(s.users, email)
	return s.result, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitIP_Denied(t *testing.T) {
	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: false, RetryAfter: 2500 * time.Millisecond}}
	rec := metrics.NewInMemory()
	handler := RateLimitIP(RateLimitConfig{
		Logger:    discardLogger(),
		Limiter:   limiter,
		Metrics:   rec,
		IPEnabled: true,
		IPRPS:     1,
		IPBurst:   1,
	})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":"RATE_LIMITED"`)
	assert.Equal(t, []string{"203.0.113.7"}, limiter.ips)
	assert.Equal(t, uint64(1), rec.Snapshot().RateLimited["ip"])
}

func TestRateLimitIP_RetryAfterAtLeastOneSecond(t *testing.T) {
	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: false, RetryAfter: 100 * time.Millisecond}}
	handler := RateLimitIP(RateLimitConfig{Logger: discardLogger(), Limiter: limiter, IPEnabled: true})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimitIP_FailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}
	handler := RateLimitIP(RateLimitConfig{Logger: discardLogger(), Limiter: limiter, IPEnabled: true})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitIP_Disabled(t *testing.T) {
	limiter := &stubLimiter{}
	handler := RateLimitIP(RateLimitConfig{Logger: discardLogger(), Limiter: limiter})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, limiter.ips)
}

func TestRateLimitUser(t *testing.T) {
	reset := time.Unix(1_700_000_060, 0)
	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 4, ResetAt: reset}}
	handler := RateLimitUser(RateLimitConfig{
		Logger:        discardLogger(),
		Limiter:       limiter,
		UserEnabled:   true,
		UserPerMinute: 5,
		UserBurst:     5,
	})(okHandler())

	t.Run("signed in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
		req = req.WithContext(auth.ContextWithPrincipal(req.Context(), &model.Principal{Email: "asha@example.com"}))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "1700000060", w.Header().Get("X-RateLimit-Reset"))
		assert.Equal(t, []string{"asha@example.com"}, limiter.users)
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		limiter.users = nil
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, limiter.users)
	})
}

func TestRateLimitIP_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	handler := RateLimitIP(RateLimitConfig{
		Logger:    discardLogger(),
		Limiter:   cache.NewWithClient(client),
		IPEnabled: true,
		IPRPS:     0.01,
		IPBurst:   2,
	})(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/forms", nil)
		req.RemoteAddr = "198.51.100.4:4000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	require.Len(t, codes, 3)
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, getClientIP(req))
	}
}
