package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/config"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const (
	DriverRedis  = "redis"
	DriverAMQP   = "amqp"
	DriverInline = "inline"

	defaultTicketEventChannel = "helpdesk:ticket:events"
	defaultTicketEventQueue   = "helpdesk.ticket.events"
	defaultHandleTimeout      = 30 * time.Second
)

// TicketEventHandler processes one ticket event. A returned error marks the delivery as failed.
type TicketEventHandler func(ctx context.Context, event ticket.TicketEvent) error

// TicketEventPublisher publishes encoded ticket events taken from the outbox.
type TicketEventPublisher interface {
	Publish(ctx context.Context, eventType ticket.EventType, payload []byte) error
}

// TicketEventSubscriber delivers published events to handler until ctx is cancelled.
type TicketEventSubscriber interface {
	Subscribe(ctx context.Context, handler TicketEventHandler) error
}

// TicketEventBus is both ends of the ticket event channel.
type TicketEventBus interface {
	TicketEventPublisher
	TicketEventSubscriber
	Close() error
}

// NewTicketEventBus builds the bus selected by cfg.Driver. redisClient may be nil unless the redis driver is used.
func NewTicketEventBus(cfg config.EventsConfig, redisClient *redis.Client, log logger.Interface) (TicketEventBus, error) {
	timeout := cfg.HandleTimeout
	if timeout <= 0 {
		timeout = defaultHandleTimeout
	}

	switch strings.ToLower(cfg.Driver) {
	case DriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis event bus requires a redis client")
		}
		channel := cfg.RedisChannel
		if channel == "" {
			channel = defaultTicketEventChannel
		}
		log.Warnw("redis event driver delivers each event to every server instance; use amqp when running replicas",
			"channel", channel)
		return NewRedisTicketEventBus(redisClient, channel, timeout, log), nil
	case DriverAMQP:
		queue := cfg.AMQPQueue
		if queue == "" {
			queue = defaultTicketEventQueue
		}
		return NewAMQPTicketEventBus(cfg.AMQPURL, queue, timeout, log), nil
	case DriverInline, "":
		return NewInlineTicketEventBus(timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown events driver: %s", cfg.Driver)
	}
}

func decodeTicketEvent(payload []byte) (ticket.TicketEvent, error) {
	var event ticket.TicketEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ticket.TicketEvent{}, fmt.Errorf("failed to unmarshal ticket event: %w", err)
	}
	return event, nil
}

// RedisTicketEventBus fans events out over Redis Pub/Sub. Delivery only reaches
// subscribers connected at publish time, and every connected server receives
// every event, so each replica sends its own copy of a notification. Use it for
// single-instance deployments; replicas share the AMQP queue instead.
type RedisTicketEventBus struct {
	client        *redis.Client
	channel       string
	handleTimeout time.Duration
	logger        logger.Interface
}

func NewRedisTicketEventBus(client *redis.Client, channel string, handleTimeout time.Duration, logger logger.Interface) *RedisTicketEventBus {
	return &RedisTicketEventBus{
		client:        client,
		channel:       channel,
		handleTimeout: handleTimeout,
		logger:        logger,
	}
}

func (b *RedisTicketEventBus) Publish(ctx context.Context, eventType ticket.EventType, payload []byte) error {
	receivers, err := b.client.Publish(ctx, b.channel, payload).Result()
	if err != nil {
		b.logger.Errorw("failed to publish ticket event",
			"event_type", eventType,
			"channel", b.channel,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if receivers == 0 {
		return fmt.Errorf("no subscriber received %s on %s", eventType, b.channel)
	}

	b.logger.Debugw("ticket event published", "event_type", eventType, "receivers", receivers)
	return nil
}

// Subscribe subscribes to ticket events and calls the handler for each event
func (b *RedisTicketEventBus) Subscribe(ctx context.Context, handler TicketEventHandler) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to ticket events", "channel", b.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("ticket event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("ticket event channel closed")
				return nil
			}

			event, err := decodeTicketEvent([]byte(msg.Payload))
			if err != nil {
				b.logger.Warnw("dropping malformed ticket event", "error", err)
				continue
			}

			handleCtx, cancel := context.WithTimeout(ctx, b.handleTimeout)
			if err := handler(handleCtx, event); err != nil {
				b.logger.Errorw("ticket event handler failed",
					"event_type", event.Type,
					"ticket_id", event.TicketID,
					"error", err,
				)
			}
			cancel()
		}
	}
}

func (b *RedisTicketEventBus) Close() error {
	return nil
}

// InlineTicketEventBus calls the subscribed handler synchronously inside Publish,
// so handler failures flow back to the outbox relay and are retried.
type InlineTicketEventBus struct {
	mu            sync.RWMutex
	handler       TicketEventHandler
	handleTimeout time.Duration
	logger        logger.Interface
}

func NewInlineTicketEventBus(handleTimeout time.Duration, logger logger.Interface) *InlineTicketEventBus {
	return &InlineTicketEventBus{
		handleTimeout: handleTimeout,
		logger:        logger,
	}
}

func (b *InlineTicketEventBus) Publish(ctx context.Context, eventType ticket.EventType, payload []byte) error {
	b.mu.RLock()
	handler := b.handler
	b.mu.RUnlock()

	if handler == nil {
		return fmt.Errorf("no subscriber registered for %s", eventType)
	}

	event, err := decodeTicketEvent(payload)
	if err != nil {
		return err
	}

	handleCtx, cancel := context.WithTimeout(ctx, b.handleTimeout)
	defer cancel()
	return handler(handleCtx, event)
}

// Subscribe registers handler and blocks until ctx is done.
func (b *InlineTicketEventBus) Subscribe(ctx context.Context, handler TicketEventHandler) error {
	b.mu.Lock()
	if b.handler != nil {
		b.mu.Unlock()
		return fmt.Errorf("inline event bus already has a subscriber")
	}
	b.handler = handler
	b.mu.Unlock()

	b.logger.Infow("inline ticket event subscriber registered")
	<-ctx.Done()

	b.mu.Lock()
	b.handler = nil
	b.mu.Unlock()
	return ctx.Err()
}

func (b *InlineTicketEventBus) Close() error {
	return nil
}
