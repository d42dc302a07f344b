package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nyaysetu"

// PrometheusRecorder exports metrics through a dedicated registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	registrations  *prometheus.CounterVec
	verifications  *prometheus.CounterVec
	logins         *prometheus.CounterVec
	logouts        *prometheus.CounterVec
	mailDeliveries *prometheus.CounterVec
	answers        *prometheus.CounterVec
	remoteFailures *prometheus.CounterVec
	remoteDuration prometheus.Histogram
	breakerState   prometheus.Gauge
	formsGenerated *prometheus.CounterVec
	historyErrors  *prometheus.CounterVec
	rateLimited    *prometheus.CounterVec
}

func counterVec(name, help, label string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, []string{label})
}

// NewPrometheus creates a recorder with Go runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry:       prometheus.NewRegistry(),
		registrations:  counterVec("registrations_total", "Registration attempts by outcome.", "outcome"),
		verifications:  counterVec("verifications_total", "Email confirmations by outcome.", "outcome"),
		logins:         counterVec("logins_total", "Login attempts by outcome.", "outcome"),
		logouts:        counterVec("logouts_total", "Logouts by outcome.", "outcome"),
		mailDeliveries: counterVec("mail_deliveries_total", "Verification emails by status.", "status"),
		answers:        counterVec("answers_total", "Answers served by source.", "source"),
		remoteFailures: counterVec("remote_failures_total", "Model calls without a usable answer by reason.", "reason"),
		remoteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Latency of model calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "remote_breaker_state",
			Help:      "Model circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
		formsGenerated: counterVec("forms_generated_total", "Generated legal forms by type.", "form_type"),
		historyErrors:  counterVec("history_write_failures_total", "History records that could not be stored.", "kind"),
		rateLimited:    counterVec("rate_limited_total", "Requests rejected by the rate limiter.", "scope"),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.registrations, p.verifications, p.logins, p.logouts, p.mailDeliveries,
		p.answers, p.remoteFailures, p.remoteDuration, p.breakerState,
		p.formsGenerated, p.historyErrors, p.rateLimited,
	)
	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Register adds collectors owned by other packages, such as connection pool
// statistics. Nil collectors are skipped.
func (p *PrometheusRecorder) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if c == nil {
			continue
		}
		if err := p.registry.Register(c); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
	}
	return nil
}

// Registry exposes the underlying registry for tests.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncRegistration(outcome string) {
	p.registrations.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncVerification(outcome string) {
	p.verifications.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncLogin(outcome string) { p.logins.WithLabelValues(outcome).Inc() }

func (p *PrometheusRecorder) IncLogout(outcome string) { p.logouts.WithLabelValues(outcome).Inc() }

func (p *PrometheusRecorder) IncMailDelivery(status string) {
	p.mailDeliveries.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncAnswer(source string) { p.answers.WithLabelValues(source).Inc() }

func (p *PrometheusRecorder) IncRemoteFailure(reason string) {
	p.remoteFailures.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) ObserveRemoteDuration(duration time.Duration) {
	p.remoteDuration.Observe(duration.Seconds())
}

func (p *PrometheusRecorder) SetRemoteBreakerState(state string) {
	p.breakerState.Set(breakerStateValue(state))
}

func (p *PrometheusRecorder) IncFormGenerated(formType string) {
	p.formsGenerated.WithLabelValues(formType).Inc()
}

func (p *PrometheusRecorder) IncHistoryWriteFailure(kind string) {
	p.historyErrors.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncRateLimited(scope string) {
	p.rateLimited.WithLabelValues(scope).Inc()
}

func breakerStateValue(state string) float64 {
	switch state {
	case "closed":
		return 0
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
