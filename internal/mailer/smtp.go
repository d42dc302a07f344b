package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPTransport delivers mail through an SMTP relay.
type SMTPTransport struct {
	from string
	dial func() (gomail.SendCloser, error)
}

// NewSMTPTransport creates a transport for host:port with PLAIN auth.
// from falls back to username when empty.
func NewSMTPTransport(host string, port int, username, password, from string) *SMTPTransport {
	if from == "" {
		from = username
	}
	dialer := gomail.NewDialer(host, port, username, password)
	return &SMTPTransport{from: from, dial: dialer.Dial}
}

// Name implements Transport.
func (t *SMTPTransport) Name() string { return "smtp" }

// Send implements Transport. gomail has no context support, so cancellation is
// only honored before dialing.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sender, err := t.dial()
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer sender.Close()

	if err := gomail.Send(sender, t.build(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (t *SMTPTransport) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}
