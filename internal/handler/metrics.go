package handler

import (
	"net/http"
)

// Exposer renders collected metrics. *metrics.PrometheusRecorder implements it.
type Exposer interface {
	Handler() http.Handler
}

// MetricsHandler exposes collected metrics.
type MetricsHandler struct {
	next http.Handler
}

// NewMetricsHandler creates a new MetricsHandler. A nil exposer answers 503.
func NewMetricsHandler(exposer Exposer) *MetricsHandler {
	if exposer == nil {
		return &MetricsHandler{}
	}
	return &MetricsHandler{next: exposer.Handler()}
}

// Metrics returns metrics in Prometheus exposition format.
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.next == nil {
		writeError(w, http.StatusServiceUnavailable, "METRICS_DISABLED", "metrics are not enabled")
		return
	}
	h.next.ServeHTTP(w, r)
}
