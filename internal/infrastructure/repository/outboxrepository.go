package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
	"github.com/orris-inc/helpdesk/internal/shared/utils/logutil"
)

const maxOutboxErrorLength = 1000

type OutboxRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *OutboxRepository) Append(ctx context.Context, messages ...*ticket.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	rows := mapper.MapSlice(messages, r.mapper.OutboxToModel)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to append outbox messages: %w", err)
	}
	for i, row := range rows {
		messages[i].SetID(row.ID)
	}
	return nil
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit, maxAttempts int) ([]*ticket.OutboxMessage, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []*models.OutboxMessageModel
	if err := tx.
		Where("delivered_at IS NULL AND attempts < ?", maxAttempts).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending outbox messages: %w", err)
	}

	return mapper.MapSlice(rows, r.mapper.OutboxToDomain), nil
}

func (r *OutboxRepository) MarkDelivered(ctx context.Context, id uint, at time.Time) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Model(&models.OutboxMessageModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"delivered_at": at,
			"attempts":     gorm.Expr("attempts + 1"),
			"last_error":   "",
		}).Error; err != nil {
		return fmt.Errorf("failed to mark outbox message delivered: %w", err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Model(&models.OutboxMessageModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": logutil.TruncateForLog(reason, maxOutboxErrorLength),
		}).Error; err != nil {
		return fmt.Errorf("failed to mark outbox message failed: %w", err)
	}
	return nil
}

func (r *OutboxRepository) PurgeDelivered(ctx context.Context, before time.Time) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Where("delivered_at IS NOT NULL AND delivered_at < ?", before).
		Delete(&models.OutboxMessageModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge delivered outbox messages: %w", result.Error)
	}
	return result.RowsAffected, nil
}
