package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/config"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

func encodedEvent(t *testing.T, ticketID uint) []byte {
	t.Helper()
	data, err := json.Marshal(ticket.TicketEvent{
		Type:          ticket.EventTicketCreated,
		TicketID:      ticketID,
		CustomerEmail: "jane@example.com",
	})
	require.NoError(t, err)
	return data
}

func TestNewTicketEventBus_SelectsDriver(t *testing.T) {
	log := logger.NewNop()

	bus, err := NewTicketEventBus(config.EventsConfig{Driver: ""}, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &InlineTicketEventBus{}, bus)

	bus, err = NewTicketEventBus(config.EventsConfig{Driver: "AMQP", AMQPURL: "amqp://localhost"}, nil, log)
	require.NoError(t, err)
	amqpBus, ok := bus.(*AMQPTicketEventBus)
	require.True(t, ok)
	assert.Equal(t, defaultTicketEventQueue, amqpBus.queue)

	_, err = NewTicketEventBus(config.EventsConfig{Driver: "redis"}, nil, log)
	assert.Error(t, err)

	_, err = NewTicketEventBus(config.EventsConfig{Driver: "kafka"}, nil, log)
	assert.Error(t, err)
}

func TestNewTicketEventBus_RedisWarnsAboutReplicas(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(&buf, nil)))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	bus, err := NewTicketEventBus(config.EventsConfig{Driver: "redis"}, client, log)
	require.NoError(t, err)
	assert.IsType(t, &RedisTicketEventBus{}, bus)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "use amqp when running replicas")
}

func TestInlineTicketEventBus(t *testing.T) {
	bus := NewInlineTicketEventBus(time.Second, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := bus.Publish(ctx, ticket.EventTicketCreated, encodedEvent(t, 1))
	assert.Error(t, err, "publish without a subscriber must fail so the outbox retries")

	var handled atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- bus.Subscribe(ctx, func(_ context.Context, event ticket.TicketEvent) error {
			if event.TicketID == 13 {
				return errors.New("smtp down")
			}
			handled.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		return bus.Publish(ctx, ticket.EventTicketCreated, encodedEvent(t, 1)) == nil
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), handled.Load())

	assert.Error(t, bus.Publish(ctx, ticket.EventTicketCreated, encodedEvent(t, 13)))
	assert.Error(t, bus.Publish(ctx, ticket.EventTicketCreated, []byte("not json")))

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRedisTicketEventBus_PublishSubscribe(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	bus := NewRedisTicketEventBus(client, "helpdesk:test:ticket:events", time.Second, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ticket.TicketEvent, 1)
	go func() {
		_ = bus.Subscribe(ctx, func(_ context.Context, event ticket.TicketEvent) error {
			received <- event
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		return bus.Publish(ctx, ticket.EventTicketCreated, encodedEvent(t, 42)) == nil
	}, 2*time.Second, 20*time.Millisecond)

	select {
	case event := <-received:
		assert.Equal(t, uint(42), event.TicketID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}
