package mailer

import (
	"context"
	"log/slog"
)

// LogTransport records the verification link in the log for manual delivery.
// It is used when no mail transport is configured.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport creates a LogTransport.
func NewLogTransport(logger *slog.Logger) *LogTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTransport{logger: logger}
}

// Name implements Transport.
func (t *LogTransport) Name() string { return "log" }

// Send implements Transport. It always returns ErrManualDelivery so callers
// report the message as not sent.
//
// This log line is the outbox, so the recipient is written in full. The
// link's token names the address anyway.
func (t *LogTransport) Send(ctx context.Context, msg Message) error {
	t.logger.InfoContext(ctx, "mail transport not configured, deliver verification link manually",
		"to", msg.To,
		"link", msg.Link,
	)
	return ErrManualDelivery
}
