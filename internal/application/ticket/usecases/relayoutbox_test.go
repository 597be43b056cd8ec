package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

func pendingMessage(t *testing.T, id uint, attempts int) *ticket.OutboxMessage {
	t.Helper()
	event := ticket.NewTicketCreatedEvent(existingTicket(t, id, vo.StatusNew), 0)
	msg, err := ticket.NewOutboxMessage(event)
	require.NoError(t, err)
	return ticket.ReconstructOutboxMessage(id, msg.EventType(), id, msg.Payload(), attempts, "", nil, fixedTime)
}

func TestRelayOutboxUseCase_Execute(t *testing.T) {
	var delivered []uint
	failed := map[uint]string{}
	outbox := &mockOutboxRepository{
		FetchPendingFunc: func(ctx context.Context, limit, maxAttempts int) ([]*ticket.OutboxMessage, error) {
			assert.Equal(t, 100, limit)
			assert.Equal(t, 10, maxAttempts)
			return []*ticket.OutboxMessage{pendingMessage(t, 1, 0), pendingMessage(t, 2, 3)}, nil
		},
		MarkDeliveredFunc: func(ctx context.Context, id uint, at time.Time) error {
			delivered = append(delivered, id)
			return nil
		},
		MarkFailedFunc: func(ctx context.Context, id uint, reason string) error {
			failed[id] = reason
			return nil
		},
	}
	publisher := &mockPublisher{
		PublishFunc: func(ctx context.Context, eventType ticket.EventType, payload []byte) error {
			if strings.Contains(string(payload), `"ticket_id":2`) {
				return errors.New("no subscribers")
			}
			return nil
		},
	}
	uc := NewRelayOutboxUseCase(outbox, publisher, 0, 0, logger.NewNop())

	count, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []uint{1}, delivered)
	assert.Equal(t, map[uint]string{2: "no subscribers"}, failed)
	assert.Equal(t, []ticket.EventType{ticket.EventTicketCreated}, publisher.published)
}

func TestRelayOutboxUseCase_Execute_FetchFailure(t *testing.T) {
	outbox := &mockOutboxRepository{
		FetchPendingFunc: func(ctx context.Context, limit, maxAttempts int) ([]*ticket.OutboxMessage, error) {
			return nil, errors.New("db down")
		},
	}
	uc := NewRelayOutboxUseCase(outbox, &mockPublisher{}, 10, 3, logger.NewNop())

	count, err := uc.Execute(context.Background())
	require.Error(t, err)
	assert.Zero(t, count)
}

func TestRelayOutboxUseCase_Execute_StopsWhenCancelled(t *testing.T) {
	outbox := &mockOutboxRepository{
		FetchPendingFunc: func(ctx context.Context, limit, maxAttempts int) ([]*ticket.OutboxMessage, error) {
			return []*ticket.OutboxMessage{pendingMessage(t, 1, 0)}, nil
		},
	}
	publisher := &mockPublisher{}
	uc := NewRelayOutboxUseCase(outbox, publisher, 10, 3, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, publisher.published)
}

func TestCleanupOutboxUseCase_Execute(t *testing.T) {
	var cutoff time.Time
	outbox := &mockOutboxRepository{
		PurgeDeliveredFunc: func(ctx context.Context, before time.Time) (int64, error) {
			cutoff = before
			return 4, nil
		},
	}
	uc := NewCleanupOutboxUseCase(outbox, 48*time.Hour, logger.NewNop())

	count, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.WithinDuration(t, time.Now().Add(-48*time.Hour), cutoff, time.Minute)
}
