package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPProducer publishes payout events over a RabbitMQ connection.
type AMQPProducer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *slog.Logger
}

var _ Publisher = (*AMQPProducer)(nil)

// NoopPublisher is used when no broker is configured or the dial fails at
// startup. It logs each skipped publish at debug level.
type NoopPublisher struct {
	Logger *slog.Logger
}

var _ Publisher = (*NoopPublisher)(nil)

func (p *NoopPublisher) PublishPayoutEvent(ctx context.Context, msg PayoutEventMessage) error {
	if p.Logger != nil {
		p.Logger.Debug("payout event publish skipped, no broker configured",
			slog.String("payout_id", msg.PayoutID),
			slog.String("routing_key", msg.RoutingKey()))
	}
	return nil
}

func (p *NoopPublisher) Close() {}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewAMQPProducer dials the broker with a bounded timeout and declares a
// durable topic exchange for wallet events.
func NewAMQPProducer(amqpURL string, logger *slog.Logger) (*AMQPProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPProducer{conn: conn, channel: ch, logger: logger}, nil
}

// PublishPayoutEvent sends the message to the wallet_events exchange. On a
// channel-level failure it reopens the channel once and retries.
func (p *AMQPProducer) PublishPayoutEvent(ctx context.Context, msg PayoutEventMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	publishing := amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	}

	err = p.channel.PublishWithContext(ctx, exchangeName, msg.RoutingKey(), false, false, publishing)
	if err == nil {
		return nil
	}

	p.logger.Warn("payout event publish failed, reopening channel",
		slog.String("routing_key", msg.RoutingKey()),
		slog.String("error", err.Error()))

	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return err
	}
	p.channel = ch
	if exErr := p.channel.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); exErr != nil {
		return exErr
	}
	return p.channel.PublishWithContext(ctx, exchangeName, msg.RoutingKey(), false, false, publishing)
}

// Close gracefully closes the channel and connection.
func (p *AMQPProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
