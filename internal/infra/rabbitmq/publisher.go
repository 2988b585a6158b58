package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"storefront-service/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *logger.Logger
}

// Envelope is the message body put on the exchange.
type Envelope struct {
	ID         string    `json:"id"`
	Pattern    string    `json:"pattern"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func NewPublisher(amqpURL, exchange string, baseLog *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		log:      baseLog.With("component", "rabbitmq.Publisher"),
	}, nil
}

func Encode(pattern string, data any, now time.Time) ([]byte, string, error) {
	env := Envelope{
		ID:         uuid.NewString(),
		Pattern:    pattern,
		OccurredAt: now.UTC(),
		Data:       data,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal message: %w", err)
	}
	return body, env.ID, nil
}

func (p *Publisher) Publish(ctx context.Context, pattern string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, id, err := Encode(pattern, data, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		p.exchange,
		pattern,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    id,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	p.log.Debug("published event", "pattern", pattern, "exchange", p.exchange, "id", id)
	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
