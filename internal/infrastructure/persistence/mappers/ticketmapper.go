package mappers

import (
	"fmt"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between ticket aggregate entities and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)

	CommentToModel(c *ticket.Comment) *models.CommentModel
	CommentToDomain(model *models.CommentModel) (*ticket.Comment, error)

	AttachmentToModel(a *ticket.Attachment) *models.AttachmentModel
	AttachmentToDomain(model *models.AttachmentModel) (*ticket.Attachment, error)

	StatusChangeToModel(s *ticket.StatusChange) *models.StatusChangeModel
	StatusChangeToDomain(model *models.StatusChangeModel) *ticket.StatusChange

	OutboxToModel(m *ticket.OutboxMessage) *models.OutboxMessageModel
	OutboxToDomain(model *models.OutboxMessageModel) *ticket.OutboxMessage
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:          t.ID(),
		Name:        t.Name(),
		Email:       t.Email(),
		Description: t.Description(),
		Status:      t.Status().String(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

// ToDomain fails on rows carrying a status outside the known set.
func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to map ticket (id=%d): %w", model.ID, err)
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.Name,
		model.Email,
		model.Description,
		status,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
}

func (m *TicketMapperImpl) CommentToModel(c *ticket.Comment) *models.CommentModel {
	return &models.CommentModel{
		ID:          c.ID(),
		TicketID:    c.TicketID(),
		AuthorName:  c.Author().Name(),
		AuthorEmail: c.Author().Email(),
		Content:     c.Content(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func (m *TicketMapperImpl) CommentToDomain(model *models.CommentModel) (*ticket.Comment, error) {
	return ticket.ReconstructComment(
		model.ID,
		model.TicketID,
		ticket.ReconstructAuthor(model.AuthorName, model.AuthorEmail),
		model.Content,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
}

func (m *TicketMapperImpl) AttachmentToModel(a *ticket.Attachment) *models.AttachmentModel {
	return &models.AttachmentModel{
		ID:        a.ID(),
		TicketID:  a.TicketID(),
		Path:      a.Path(),
		FileURL:   a.FileURL(),
		FileName:  a.FileName(),
		FileSize:  a.FileSize(),
		MimeType:  a.MimeType(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}

func (m *TicketMapperImpl) AttachmentToDomain(model *models.AttachmentModel) (*ticket.Attachment, error) {
	return ticket.ReconstructAttachment(
		model.ID,
		model.TicketID,
		ticket.StagedFile{
			Path:     model.Path,
			FileURL:  model.FileURL,
			FileName: model.FileName,
			FileSize: model.FileSize,
			MimeType: model.MimeType,
		},
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
}

func (m *TicketMapperImpl) StatusChangeToModel(s *ticket.StatusChange) *models.StatusChangeModel {
	return &models.StatusChangeModel{
		ID:             s.ID(),
		TicketID:       s.TicketID(),
		FromStatus:     s.FromStatus().String(),
		ToStatus:       s.ToStatus().String(),
		ChangedByName:  s.ChangedBy().Name(),
		ChangedByEmail: s.ChangedBy().Email(),
		Policy:         s.Policy(),
		CreatedAt:      s.CreatedAt(),
	}
}

// StatusChangeToDomain keeps historic rows readable even if their author data is incomplete.
func (m *TicketMapperImpl) StatusChangeToDomain(model *models.StatusChangeModel) *ticket.StatusChange {
	return ticket.ReconstructStatusChange(
		model.ID,
		model.TicketID,
		vo.TicketStatus(model.FromStatus),
		vo.TicketStatus(model.ToStatus),
		ticket.ReconstructAuthor(model.ChangedByName, model.ChangedByEmail),
		model.Policy,
		model.CreatedAt.UTC(),
	)
}

func (m *TicketMapperImpl) OutboxToModel(msg *ticket.OutboxMessage) *models.OutboxMessageModel {
	return &models.OutboxMessageModel{
		ID:          msg.ID(),
		EventType:   string(msg.EventType()),
		AggregateID: msg.AggregateID(),
		Payload:     msg.Payload(),
		Attempts:    msg.Attempts(),
		LastError:   msg.LastError(),
		DeliveredAt: msg.DeliveredAt(),
		CreatedAt:   msg.CreatedAt(),
	}
}

func (m *TicketMapperImpl) OutboxToDomain(model *models.OutboxMessageModel) *ticket.OutboxMessage {
	return ticket.ReconstructOutboxMessage(
		model.ID,
		ticket.EventType(model.EventType),
		model.AggregateID,
		model.Payload,
		model.Attempts,
		model.LastError,
		model.DeliveredAt,
		model.CreatedAt.UTC(),
	)
}
