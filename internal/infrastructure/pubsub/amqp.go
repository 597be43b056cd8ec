package pubsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/biztime"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const (
	amqpPrefetch      = 50
	amqpMaxBackoff    = 30 * time.Second
	amqpReconnectWait = 2 * time.Second
)

// AMQPTicketEventBus publishes ticket events to a durable RabbitMQ queue as persistent messages.
type AMQPTicketEventBus struct {
	url           string
	queue         string
	handleTimeout time.Duration
	logger        logger.Interface

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPTicketEventBus(url, queue string, handleTimeout time.Duration, logger logger.Interface) *AMQPTicketEventBus {
	return &AMQPTicketEventBus{
		url:           url,
		queue:         queue,
		handleTimeout: handleTimeout,
		logger:        logger,
	}
}

// publishChannel returns the cached publishing channel, redialing when the broker dropped it.
func (b *AMQPTicketEventBus) publishChannel() (*amqp.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ch != nil && !b.ch.IsClosed() && b.conn != nil && !b.conn.IsClosed() {
		return b.ch, nil
	}
	b.closeLocked()

	conn, err := amqp.Dial(b.url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	b.conn = conn
	b.ch = ch
	return ch, nil
}

func (b *AMQPTicketEventBus) Publish(ctx context.Context, eventType ticket.EventType, payload []byte) error {
	ch, err := b.publishChannel()
	if err != nil {
		b.logger.Errorw("rabbitmq unavailable", "event_type", eventType, "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    biztime.NowUTC(),
		Type:         string(eventType),
		Body:         payload,
	}

	if err := ch.PublishWithContext(ctx, "", b.queue, false, false, pub); err != nil {
		b.logger.Errorw("failed to publish ticket event", "event_type", eventType, "queue", b.queue, "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe consumes the queue, reconnecting with exponential backoff until ctx is cancelled.
func (b *AMQPTicketEventBus) Subscribe(ctx context.Context, handler TicketEventHandler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(b.url)
		if err != nil {
			b.logger.Warnw("ticket event consumer failed to dial broker", "error", err, "retry_in", backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < amqpMaxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = b.consumeLoop(ctx, conn, handler)
		_ = conn.Close()
		if ctx.Err() != nil {
			b.logger.Infow("ticket event consumer stopped", "reason", ctx.Err())
			return ctx.Err()
		}
		b.logger.Warnw("ticket event consume loop ended, reconnecting", "error", err)
		if !sleepCtx(ctx, amqpReconnectWait) {
			return ctx.Err()
		}
	}
}

func (b *AMQPTicketEventBus) consumeLoop(ctx context.Context, conn *amqp.Connection, handler TicketEventHandler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(amqpPrefetch, 0, false); err != nil {
		b.logger.Warnw("set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, b.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	b.logger.Infow("consuming ticket events", "queue", b.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			b.handleDelivery(ctx, d, handler)
		}
	}
}

func (b *AMQPTicketEventBus) handleDelivery(ctx context.Context, d amqp.Delivery, handler TicketEventHandler) {
	event, err := decodeTicketEvent(d.Body)
	if err != nil {
		b.logger.Warnw("rejecting malformed ticket event", "error", err)
		_ = d.Nack(false, false)
		return
	}

	handleCtx, cancel := context.WithTimeout(ctx, b.handleTimeout)
	defer cancel()

	if err := handler(handleCtx, event); err != nil {
		// Requeue once; a redelivered message that fails again is dropped.
		requeue := !d.Redelivered
		b.logger.Errorw("ticket event handler failed",
			"event_type", event.Type,
			"ticket_id", event.TicketID,
			"requeue", requeue,
			"error", err,
		)
		_ = d.Nack(false, requeue)
		return
	}
	_ = d.Ack(false)
}

func (b *AMQPTicketEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
	return nil
}

func (b *AMQPTicketEventBus) closeLocked() {
	if b.ch != nil {
		_ = b.ch.Close()
		b.ch = nil
	}
	if b.conn != nil {
		_ = b.conn.Close()
		b.conn = nil
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
