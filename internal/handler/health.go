package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const readinessTimeout = 5 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name    string
	checker HealthChecker
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	deps []dependency
	// Informational only: answers keep flowing from the offline guides
	// without a remote model.
	remoteConfigured bool
	logger           *slog.Logger
}

// NewHealthHandler creates a new HealthHandler. A nil db or cache is
// reported as "not configured" and does not fail readiness.
func NewHealthHandler(db, cache HealthChecker, remoteConfigured bool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		deps: []dependency{
			{name: "postgres", checker: db},
			{name: "redis", checker: cache},
		},
		remoteConfigured: remoteConfigured,
		logger:           logger,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is the liveness probe. It never touches dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz pings every dependency concurrently and answers 503 if any fails.
// Failure details go to the log; the probe only says "unavailable".
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		checks  = make(map[string]string, len(h.deps)+1)
		healthy = true
	)

	for _, dep := range h.deps {
		if dep.checker == nil {
			checks[dep.name] = "not configured"
			continue
		}
		wg.Add(1)
		go func(dep dependency) {
			defer wg.Done()
			err := dep.checker.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				healthy = false
				checks[dep.name] = "unavailable"
				h.logger.WarnContext(ctx, "readiness check failed", "dependency", dep.name, "error", err)
				return
			}
			checks[dep.name] = "ok"
		}(dep)
	}
	wg.Wait()

	if h.remoteConfigured {
		checks["answers"] = "remote"
	} else {
		checks["answers"] = "offline_only"
	}

	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Checks: checks})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Checks: checks})
}
