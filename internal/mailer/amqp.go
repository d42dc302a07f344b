package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher is the subset of *amqp.Channel the transport needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPTransport hands messages to a durable queue consumed by a separate sender.
type AMQPTransport struct {
	conn    *amqp.Connection
	channel publisher
	queue   string
	now     func() time.Time
}

// NewAMQPTransport dials the broker and declares a durable queue.
func NewAMQPTransport(url, queue string) (*AMQPTransport, error) {
	const op = "mailer.NewAMQPTransport"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AMQPTransport{conn: conn, channel: ch, queue: q.Name, now: time.Now}, nil
}

// Name implements Transport.
func (t *AMQPTransport) Name() string { return "amqp" }

// Send implements Transport by publishing a persistent JSON message.
func (t *AMQPTransport) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("amqp encode: %w", err)
	}

	err = t.channel.PublishWithContext(ctx, "", t.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    t.now(),
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (t *AMQPTransport) Close() error {
	if c, ok := t.channel.(*amqp.Channel); ok {
		_ = c.Close()
	}
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}
