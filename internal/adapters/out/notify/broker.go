package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the part of *amqp.Channel the broker sink uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Broker publishes every notification to a topic exchange with the event
// name as routing key.
type Broker struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
}

// DialBroker connects to RabbitMQ and declares a durable topic exchange.
func DialBroker(url, exchange string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	if err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}
	return &Broker{conn: conn, ch: ch, exchange: exchange}, nil
}

func newBroker(ch amqpChannel, exchange string) *Broker {
	return &Broker{ch: ch, exchange: exchange}
}

func (b *Broker) Name() string { return "rabbitmq" }

func (b *Broker) Deliver(ctx context.Context, event kernel.DomainEvent, notifications []ports.Notification) error {
	for _, n := range notifications {
		body, err := json.Marshal(toMessage(event, n))
		if err != nil {
			return err
		}
		err = b.ch.PublishWithContext(ctx, b.exchange, event.EventName(), false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    n.ID,
			Timestamp:    time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to publish message: %w", err)
		}
	}
	return nil
}

func (b *Broker) Close() error {
	if err := b.ch.Close(); err != nil {
		return err
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
