package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingTransport struct {
	sent []Message
	err  error
}

func (r *recordingTransport) Name() string { return "recording" }

func (r *recordingTransport) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMailer_VerificationLink(t *testing.T) {
	t.Parallel()

	m := New(&recordingTransport{}, "https://nyaysetu.in/", 24*time.Hour, quietLogger())
	assert.Equal(t, "https://nyaysetu.in/api/v1/auth/verify?token=a.b%2Bc", m.VerificationLink("a.b+c"))
}

func TestMailer_SendVerification(t *testing.T) {
	t.Parallel()

	tr := &recordingTransport{}
	m := New(tr, "http://localhost:8080", 24*time.Hour, quietLogger())

	require.NoError(t, m.SendVerification(context.Background(), "asha@example.com", "tok"))
	require.Len(t, tr.sent, 1)

	msg := tr.sent[0]
	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, verificationSubject, msg.Subject)
	assert.Equal(t, "http://localhost:8080/api/v1/auth/verify?token=tok", msg.Link)
	assert.Contains(t, msg.Body, msg.Link)
	assert.Contains(t, msg.Body, "expires in 24 hours")
	assert.Equal(t, "verify", msg.Purpose)
}

func TestMailer_SendVerification_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("relay down")
	m := New(&recordingTransport{err: boom}, "http://x", time.Hour, quietLogger())

	err := m.SendVerification(context.Background(), "a@x.com", "tok")
	assert.ErrorIs(t, err, boom)

	err = m.SendVerification(context.Background(), "", "tok")
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestDescribeTTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ttl  time.Duration
		want string
	}{
		{24 * time.Hour, "24 hours"},
		{time.Hour, "1 hour"},
		{90 * time.Minute, "90 minutes"},
		{0, "a short while"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describeTTL(tt.ttl), tt.ttl.String())
	}
}

func TestLogTransport_ReportsManualDelivery(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m := New(NewLogTransport(logger), "http://x", time.Hour, logger)

	err := m.SendVerification(context.Background(), "asha@example.com", "tok")
	assert.ErrorIs(t, err, ErrManualDelivery)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(firstLogLine(t, &buf, "deliver verification link manually"), &entry))
	assert.Equal(t, "asha@example.com", entry["to"])
	assert.Equal(t, "http://x/api/v1/auth/verify?token=tok", entry["link"])
}

func firstLogLine(t *testing.T, buf *bytes.Buffer, msg string) []byte {
	t.Helper()
	for _, line := range bytes.Split(buf.Bytes(), []byte("\n")) {
		if bytes.Contains(line, []byte(msg)) {
			return line
		}
	}
	t.Fatalf("no log line containing %q in %s", msg, buf.String())
	return nil
}

// ---------------------------------------------------------------------------
// SMTP
// ---------------------------------------------------------------------------

type fakeSendCloser struct {
	from   string
	to     []string
	raw    bytes.Buffer
	closed bool
	err    error
}

func (f *fakeSendCloser) Send(from string, to []string, msg io.WriterTo) error {
	f.from = from
	f.to = to
	if _, err := msg.WriteTo(&f.raw); err != nil {
		return err
	}
	return f.err
}

func (f *fakeSendCloser) Close() error {
	f.closed = true
	return nil
}

func TestSMTPTransport_Send(t *testing.T) {
	t.Parallel()

	fake := &fakeSendCloser{}
	tr := NewSMTPTransport("smtp.example.com", 587, "bot@nyaysetu.in", "secret", "")
	tr.dial = func() (gomail.SendCloser, error) { return fake, nil }

	msg := ComposeVerification("asha@example.com", "http://x/auth/verify?token=tok", time.Hour)
	require.NoError(t, tr.Send(context.Background(), msg))

	assert.Equal(t, "bot@nyaysetu.in", fake.from)
	assert.Equal(t, []string{"asha@example.com"}, fake.to)
	assert.True(t, fake.closed)
	assert.Contains(t, fake.raw.String(), "Subject: "+verificationSubject)
}

func TestSMTPTransport_DialFailure(t *testing.T) {
	t.Parallel()

	tr := NewSMTPTransport("smtp.example.com", 587, "u", "p", "from@x.com")
	tr.dial = func() (gomail.SendCloser, error) { return nil, errors.New("connection refused") }

	err := tr.Send(context.Background(), Message{To: "a@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp dial")
}

func TestSMTPTransport_CanceledContext(t *testing.T) {
	t.Parallel()

	dialed := false
	tr := NewSMTPTransport("smtp.example.com", 587, "u", "p", "")
	tr.dial = func() (gomail.SendCloser, error) {
		dialed = true
		return &fakeSendCloser{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, tr.Send(ctx, Message{To: "a@x.com"}), context.Canceled)
	assert.False(t, dialed)
}

// ---------------------------------------------------------------------------
// AMQP
// ---------------------------------------------------------------------------

type fakePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestAMQPTransport_Send(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pub := &fakePublisher{}
	tr := &AMQPTransport{channel: pub, queue: "verification_emails", now: func() time.Time { return now }}

	msg := ComposeVerification("asha@example.com", "http://x/auth/verify?token=tok", time.Hour)
	require.NoError(t, tr.Send(context.Background(), msg))

	assert.Equal(t, "", pub.exchange)
	assert.Equal(t, "verification_emails", pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), pub.msg.DeliveryMode)
	assert.Equal(t, now, pub.msg.Timestamp)

	var decoded Message
	require.NoError(t, json.Unmarshal(pub.msg.Body, &decoded))
	assert.Equal(t, msg, decoded)
}

func TestAMQPTransport_PublishError(t *testing.T) {
	t.Parallel()

	tr := &AMQPTransport{channel: &fakePublisher{err: amqp.ErrClosed}, queue: "q", now: time.Now}

	err := tr.Send(context.Background(), Message{To: "a@x.com"})
	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.True(t, strings.HasPrefix(err.Error(), "amqp publish"))
}
