package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

type StatusChangeRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewStatusChangeRepository(db *gorm.DB) *StatusChangeRepository {
	return &StatusChangeRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *StatusChangeRepository) Create(ctx context.Context, change *ticket.StatusChange) error {
	model := r.mapper.StatusChangeToModel(change)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to record status change: %w", err)
	}
	change.SetID(model.ID)
	return nil
}

func (r *StatusChangeRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticket.StatusChange, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []*models.StatusChangeModel
	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list status changes: %w", err)
	}

	return mapper.MapSlice(rows, r.mapper.StatusChangeToDomain), nil
}
