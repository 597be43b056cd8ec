package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type AddCommentCommand struct {
	TicketID    uint
	AuthorName  string
	AuthorEmail string
	Content     string
}

type AddCommentUseCase struct {
	ticketRepo    ticket.TicketRepository
	commentRepo   ticket.CommentRepository
	outboxRepo    ticket.OutboxRepository
	renderer      MarkdownRenderer
	defaultAuthor ticket.Author
	txMgr         TransactionRunner
	logger        logger.Interface
}

func NewAddCommentUseCase(
	ticketRepo ticket.TicketRepository,
	commentRepo ticket.CommentRepository,
	outboxRepo ticket.OutboxRepository,
	renderer MarkdownRenderer,
	defaultAuthor ticket.Author,
	txMgr TransactionRunner,
	logger logger.Interface,
) *AddCommentUseCase {
	return &AddCommentUseCase{
		ticketRepo:    ticketRepo,
		commentRepo:   commentRepo,
		outboxRepo:    outboxRepo,
		renderer:      renderer,
		defaultAuthor: defaultAuthor,
		txMgr:         txMgr,
		logger:        logger,
	}
}

func (uc *AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (*dto.CommentDTO, error) {
	uc.logger.Infow("executing add comment use case", "ticket_id", cmd.TicketID)

	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	author := resolveAuthor(cmd.AuthorName, cmd.AuthorEmail, uc.defaultAuthor)

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, readError(err, "failed to load ticket")
	}

	comment, err := ticket.NewComment(t.ID(), author, cmd.Content)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.commentRepo.Create(txCtx, comment); err != nil {
			return errors.NewRemoteWriteError("failed to add comment", err)
		}
		return appendEvent(txCtx, uc.outboxRepo, ticket.NewTicketCommentAddedEvent(t, comment))
	})
	if txErr != nil {
		uc.logger.Errorw("failed to add comment", "ticket_id", cmd.TicketID, "error", txErr)
		return nil, txErr
	}

	uc.logger.Infow("comment added successfully", "comment_id", comment.ID(), "ticket_id", t.ID())
	return dto.ToCommentDTO(comment, renderContent(uc.renderer, uc.logger, comment)), nil
}

// renderContent returns an empty body when markdown conversion fails; the raw content is still returned.
func renderContent(renderer MarkdownRenderer, log logger.Interface, c *ticket.Comment) string {
	html, err := renderer.ToHTML(c.Content())
	if err != nil {
		log.Warnw("failed to render comment markdown", "comment_id", c.ID(), "error", err)
		return ""
	}
	return html
}

func toCommentDTOs(renderer MarkdownRenderer, log logger.Interface, comments []*ticket.Comment) []*dto.CommentDTO {
	out := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, dto.ToCommentDTO(c, renderContent(renderer, log, c)))
	}
	return out
}
