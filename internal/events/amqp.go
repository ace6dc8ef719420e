package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/internal/logger"
)

// AMQPBroker publishes events to a durable topic exchange, routed by type.
type AMQPBroker struct {
	exchange string
	conn     *amqp.Connection
	log      *zap.Logger

	mu     sync.Mutex
	pub    *amqp.Channel
	subs   []*amqp.Channel
	closed bool
}

// DialAMQP connects to url and declares exchange.
func DialAMQP(url, exchange string, log *zap.Logger) (*AMQPBroker, error) {
	log = logger.OrNop(log)
	conn, err := amqp.DialConfig(url, amqp.Config{Heartbeat: 30 * time.Second, Locale: "en_US"})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	log.Info("connected to AMQP", zap.String("exchange", exchange))
	return &AMQPBroker{exchange: exchange, conn: conn, pub: ch, log: log}, nil
}

func (b *AMQPBroker) Publish(ctx context.Context, e Event) error {
	body, err := encode(e)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBrokerClosed
	}
	err = b.pub.Publish(b.exchange, string(e.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Timestamp:    e.OccurredAt,
		Type:         string(e.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s for match %d: %w", e.Type, e.MatchID, err)
	}
	return nil
}

// Consume binds a durable queue named after the exchange and type, so
// several service instances share the work.
func (b *AMQPBroker) Consume(t Type) (<-chan Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrokerClosed
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	if err := ch.Qos(16, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	queue, err := ch.QueueDeclare(queueName(b.exchange, t), true, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, string(t), b.exchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}
	deliveries, err := ch.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to consume: %w", err)
	}
	b.subs = append(b.subs, ch)

	out := make(chan Event, consumerBuffer)
	go func() {
		defer close(out)
		for d := range deliveries {
			e, err := decode(d.Body)
			if err != nil {
				b.log.Error("discarding malformed event", zap.String("queue", queue.Name), zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			out <- e
			_ = d.Ack(false)
		}
	}()
	b.log.Info("consuming events", zap.String("queue", queue.Name), zap.String("type", string(t)))
	return out, nil
}

func (b *AMQPBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, ch := range b.subs {
		ch.Close()
	}
	return b.conn.Close()
}

func queueName(exchange string, t Type) string {
	return exchange + "." + string(t)
}
