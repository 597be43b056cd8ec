package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type ListCommentsUseCase struct {
	ticketRepo  ticket.TicketRepository
	commentRepo ticket.CommentRepository
	renderer    MarkdownRenderer
	logger      logger.Interface
}

func NewListCommentsUseCase(
	ticketRepo ticket.TicketRepository,
	commentRepo ticket.CommentRepository,
	renderer MarkdownRenderer,
	logger logger.Interface,
) *ListCommentsUseCase {
	return &ListCommentsUseCase{
		ticketRepo:  ticketRepo,
		commentRepo: commentRepo,
		renderer:    renderer,
		logger:      logger,
	}
}

// Execute returns every comment on the ticket, newest first.
func (uc *ListCommentsUseCase) Execute(ctx context.Context, ticketID uint) ([]*dto.CommentDTO, error) {
	if ticketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	if _, err := uc.ticketRepo.GetByID(ctx, ticketID); err != nil {
		return nil, readError(err, "failed to load ticket")
	}

	comments, err := uc.commentRepo.ListByTicketID(ctx, ticketID)
	if err != nil {
		uc.logger.Errorw("failed to list comments", "ticket_id", ticketID, "error", err)
		return nil, errors.NewRemoteReadError("failed to list comments", err)
	}

	return toCommentDTOs(uc.renderer, uc.logger, comments), nil
}
