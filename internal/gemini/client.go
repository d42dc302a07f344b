// Package gemini calls the Google Generative Language API and reports every
// call as a tagged outcome instead of an error.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Reason classifies why a remote call produced no usable answer.
type Reason string

const (
	ReasonMissingCredentials Reason = "missing_credentials"
	ReasonTimeout            Reason = "timeout"
	ReasonCanceled           Reason = "canceled"
	ReasonStatus             Reason = "status"
	ReasonMalformed          Reason = "malformed"
	ReasonEmpty              Reason = "empty"
	ReasonTransport          Reason = "transport"
	ReasonCircuitOpen        Reason = "circuit_open"
	ReasonThrottled          Reason = "throttled"
)

// textPath locates the answer in a generateContent response.
const textPath = "candidates.0.content.parts.0.text"

// Failure describes an unusable remote call.
type Failure struct {
	Reason     Reason
	StatusCode int
	Err        error
}

func (f *Failure) Error() string {
	switch {
	case f.StatusCode != 0:
		return fmt.Sprintf("gemini %s: http %d", f.Reason, f.StatusCode)
	case f.Err != nil:
		return fmt.Sprintf("gemini %s: %v", f.Reason, f.Err)
	default:
		return "gemini " + string(f.Reason)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome is either answer text or a Failure, never both.
type Outcome struct {
	Text     string
	Failure  *Failure
	Duration time.Duration
}

// OK reports whether the outcome carries usable text.
func (o Outcome) OK() bool { return o.Failure == nil }

// Config holds client settings.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	MaxRPS          float64
	BreakerFailures uint32
	BreakerCooldown time.Duration
	// SystemInstruction, when set, is sent as the first part of every request.
	SystemInstruction string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBreakerObserver is called with the new state name on every breaker transition.
func WithBreakerObserver(fn func(state string)) Option {
	return func(c *Client) { c.onState = fn }
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	limiter *rate.Limiter
	logger  *slog.Logger
	onState func(string)
}

// New creates a Client. An empty APIKey is allowed; every call then fails
// with ReasonMissingCredentials without touching the network.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:    cfg,
		http:   NewHTTPClient(),
		logger: logger.With("component", "gemini"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.MaxRPS > 0 {
		burst := int(cfg.MaxRPS)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.MaxRPS), burst)
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			if c.onState != nil {
				c.onState(to.String())
			}
		},
		IsSuccessful: func(err error) bool { return err == nil },
		// Cancellations count as neither success nor failure.
		IsExcluded: func(err error) bool {
			var f *Failure
			return errors.As(err, &f) && f.Reason == ReasonCanceled
		},
	})

	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Generate sends one prompt. It makes at most one HTTP request and never retries.
func (c *Client) Generate(ctx context.Context, prompt string) Outcome {
	start := time.Now()
	fail := func(f *Failure) Outcome {
		return Outcome{Failure: f, Duration: time.Since(start)}
	}

	if !c.Enabled() {
		return fail(&Failure{Reason: ReasonMissingCredentials})
	}
	if c.limiter != nil && !c.limiter.Allow() {
		return fail(&Failure{Reason: ReasonThrottled})
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	text, err := c.breaker.Execute(func() (string, error) {
		return c.call(ctx, prompt)
	})
	if err != nil {
		var f *Failure
		switch {
		case errors.As(err, &f):
			return fail(f)
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return fail(&Failure{Reason: ReasonCircuitOpen, Err: err})
		default:
			return fail(&Failure{Reason: ReasonTransport, Err: err})
		}
	}

	return Outcome{Text: text, Duration: time.Since(start)}
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Endpoint returns the generateContent URL for the configured model.
func (c *Client) Endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	request := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if c.cfg.SystemInstruction != "" {
		request.SystemInstruction = &content{Parts: []part{{Text: c.cfg.SystemInstruction}}}
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return "", &Failure{Reason: ReasonTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", &Failure{Reason: ReasonTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &Failure{Reason: ReasonStatus, StatusCode: resp.StatusCode}
	}
	if !gjson.ValidBytes(body) {
		return "", &Failure{Reason: ReasonMalformed, Err: errors.New("response is not valid JSON")}
	}

	result := gjson.GetBytes(body, textPath)
	if !result.Exists() || result.Type != gjson.String {
		return "", &Failure{Reason: ReasonMalformed, Err: fmt.Errorf("%s missing", textPath)}
	}

	text := strings.TrimSpace(result.String())
	if text == "" {
		return "", &Failure{Reason: ReasonEmpty}
	}
	return text, nil
}

func classifyTransportError(ctx context.Context, err error) *Failure {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Reason: ReasonTimeout, Err: err}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Failure{Reason: ReasonCanceled, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Failure{Reason: ReasonTimeout, Err: err}
	}
	return &Failure{Reason: ReasonTransport, Err: err}
}
