package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/biztime"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const (
	DefaultRelayBatchSize   = 100
	DefaultRelayMaxAttempts = 10
	DefaultOutboxRetention  = 7 * 24 * time.Hour
)

// RelayOutboxUseCase publishes pending outbox messages to the event bus.
// Delivery is at least once: a message is marked delivered only after Publish succeeds.
type RelayOutboxUseCase struct {
	outboxRepo  ticket.OutboxRepository
	publisher   EventPublisher
	batchSize   int
	maxAttempts int
	logger      logger.Interface
}

func NewRelayOutboxUseCase(
	outboxRepo ticket.OutboxRepository,
	publisher EventPublisher,
	batchSize int,
	maxAttempts int,
	logger logger.Interface,
) *RelayOutboxUseCase {
	if batchSize <= 0 {
		batchSize = DefaultRelayBatchSize
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultRelayMaxAttempts
	}
	return &RelayOutboxUseCase{
		outboxRepo:  outboxRepo,
		publisher:   publisher,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Execute relays one batch and returns the number of messages delivered.
func (uc *RelayOutboxUseCase) Execute(ctx context.Context) (int, error) {
	pending, err := uc.outboxRepo.FetchPending(ctx, uc.batchSize, uc.maxAttempts)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, msg := range pending {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}

		if err := uc.publisher.Publish(ctx, msg.EventType(), msg.Payload()); err != nil {
			uc.logger.Warnw("failed to publish outbox message",
				"message_id", msg.ID(),
				"event_type", msg.EventType(),
				"attempts", msg.Attempts()+1,
				"error", err,
			)
			if markErr := uc.outboxRepo.MarkFailed(ctx, msg.ID(), err.Error()); markErr != nil {
				uc.logger.Errorw("failed to record outbox failure", "message_id", msg.ID(), "error", markErr)
			}
			if msg.Attempts()+1 >= uc.maxAttempts {
				uc.logger.Errorw("outbox message exhausted retries",
					"message_id", msg.ID(),
					"event_type", msg.EventType(),
					"aggregate_id", msg.AggregateID(),
				)
			}
			continue
		}

		if err := uc.outboxRepo.MarkDelivered(ctx, msg.ID(), biztime.NowUTC()); err != nil {
			// The message will be published again on the next run.
			uc.logger.Errorw("failed to mark outbox message delivered", "message_id", msg.ID(), "error", err)
			continue
		}
		delivered++
	}

	return delivered, nil
}

// CleanupOutboxUseCase deletes delivered outbox messages past the retention window.
type CleanupOutboxUseCase struct {
	outboxRepo ticket.OutboxRepository
	retention  time.Duration
	logger     logger.Interface
}

func NewCleanupOutboxUseCase(
	outboxRepo ticket.OutboxRepository,
	retention time.Duration,
	logger logger.Interface,
) *CleanupOutboxUseCase {
	if retention <= 0 {
		retention = DefaultOutboxRetention
	}
	return &CleanupOutboxUseCase{
		outboxRepo: outboxRepo,
		retention:  retention,
		logger:     logger,
	}
}

func (uc *CleanupOutboxUseCase) Execute(ctx context.Context) (int, error) {
	cutoff := biztime.NowUTC().Add(-uc.retention)
	purged, err := uc.outboxRepo.PurgeDelivered(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	return int(purged), nil
}
