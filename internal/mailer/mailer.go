// Package mailer composes verification emails and hands them to a transport.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

var (
	// ErrNoRecipient is returned when the destination address is empty.
	ErrNoRecipient = errors.New("mailer: empty recipient")
	// ErrManualDelivery means no transport is configured and the link was only logged.
	ErrManualDelivery = errors.New("mailer: no transport configured, manual delivery required")
)

// verificationSubject is the subject line of every verification email.
const verificationSubject = "Verify your NyaySetu account"

// Message is a fully composed email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Link    string `json:"link"`
	Purpose string `json:"purpose"`
}

// Transport delivers composed messages.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Mailer builds verification messages for a transport.
type Mailer struct {
	transport Transport
	baseURL   string
	linkTTL   time.Duration
	logger    *slog.Logger
}

// New creates a Mailer. baseURL is the public origin used in links and linkTTL
// is the verification token lifetime quoted in the message.
func New(transport Transport, baseURL string, linkTTL time.Duration, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		transport: transport,
		baseURL:   strings.TrimRight(baseURL, "/"),
		linkTTL:   linkTTL,
		logger:    logger.With("component", "mailer", "transport", transport.Name()),
	}
}

// Transport returns the name of the configured transport.
func (m *Mailer) Transport() string {
	return m.transport.Name()
}

// VerificationLink returns the single-use confirmation URL for token.
func (m *Mailer) VerificationLink(token string) string {
	return m.baseURL + "/api/v1/auth/verify?token=" + url.QueryEscape(token)
}

// SendVerification composes the confirmation email for email and delivers it.
func (m *Mailer) SendVerification(ctx context.Context, email, token string) error {
	if email == "" {
		return ErrNoRecipient
	}

	msg := ComposeVerification(email, m.VerificationLink(token), m.linkTTL)
	if err := m.transport.Send(ctx, msg); err != nil {
		if errors.Is(err, ErrManualDelivery) {
			return err
		}
		m.logger.Warn("verification email not delivered",
			"to", model.MaskEmail(email),
			"error", err,
		)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	m.logger.Info("verification email dispatched", "to", model.MaskEmail(email))
	return nil
}

// ComposeVerification builds the plain-text verification message.
func ComposeVerification(email, link string, ttl time.Duration) Message {
	var b strings.Builder
	b.WriteString("Namaste,\n\n")
	b.WriteString("Thank you for registering with NyaySetu. Confirm your email address by opening the link below:\n\n")
	b.WriteString(link)
	fmt.Fprintf(&b, "\n\nThe link can be used once and expires in %s.\n", describeTTL(ttl))
	b.WriteString("If you did not create an account, you can ignore this message.\n\n")
	b.WriteString("NyaySetu")

	return Message{
		To:      email,
		Subject: verificationSubject,
		Body:    b.String(),
		Link:    link,
		Purpose: "verify",
	}
}

func describeTTL(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short while"
	case d%time.Hour == 0 && d >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d == time.Hour:
		return "1 hour"
	default:
		return fmt.Sprintf("%d minutes", int(d.Round(time.Minute)/time.Minute))
	}
}
