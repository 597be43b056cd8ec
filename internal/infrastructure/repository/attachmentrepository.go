package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
	"github.com/orris-inc/helpdesk/internal/shared/db"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

const attachmentBatchSize = 50

type AttachmentRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

// CreateBatch inserts all rows in one statement group. Callers wanting all-or-nothing
// semantics across other writes run it inside a transaction.
func (r *AttachmentRepository) CreateBatch(ctx context.Context, attachments []*ticket.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}

	rows := mapper.MapSlice(attachments, r.mapper.AttachmentToModel)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.CreateInBatches(rows, attachmentBatchSize).Error; err != nil {
		return fmt.Errorf("failed to create attachments: %w", err)
	}

	for i, row := range rows {
		if err := attachments[i].SetID(row.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uint) (*ticket.Attachment, error) {
	var model models.AttachmentModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return r.mapper.AttachmentToDomain(&model)
}

func (r *AttachmentRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []*models.AttachmentModel
	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	return mapper.MapSliceWithError(rows, r.mapper.AttachmentToDomain)
}

func (r *AttachmentRepository) ExistsByPath(ctx context.Context, path string) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	if err := tx.Model(&models.AttachmentModel{}).Where("path = ?", path).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check attachment path: %w", err)
	}
	return count > 0, nil
}
