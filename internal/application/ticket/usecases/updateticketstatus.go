package usecases

import (
	"context"
	stderrors "errors"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type UpdateTicketStatusCommand struct {
	TicketID   uint
	Status     string
	ActorName  string
	ActorEmail string
}

type UpdateTicketStatusUseCase struct {
	ticketRepo       ticket.TicketRepository
	statusChangeRepo ticket.StatusChangeRepository
	outboxRepo       ticket.OutboxRepository
	policy           ticket.TransitionPolicy
	defaultActor     ticket.Author
	txMgr            TransactionRunner
	logger           logger.Interface
}

func NewUpdateTicketStatusUseCase(
	ticketRepo ticket.TicketRepository,
	statusChangeRepo ticket.StatusChangeRepository,
	outboxRepo ticket.OutboxRepository,
	policy ticket.TransitionPolicy,
	defaultActor ticket.Author,
	txMgr TransactionRunner,
	logger logger.Interface,
) *UpdateTicketStatusUseCase {
	return &UpdateTicketStatusUseCase{
		ticketRepo:       ticketRepo,
		statusChangeRepo: statusChangeRepo,
		outboxRepo:       outboxRepo,
		policy:           policy,
		defaultActor:     defaultActor,
		txMgr:            txMgr,
		logger:           logger,
	}
}

// Execute moves a ticket to a new status. Writing the current status is a no-op.
// A real change updates the row, records the audit entry and queues the
// ticket.status_changed event in one transaction.
func (uc *UpdateTicketStatusUseCase) Execute(ctx context.Context, cmd UpdateTicketStatusCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing update ticket status use case",
		"ticket_id", cmd.TicketID,
		"status", cmd.Status,
		"policy", uc.policy.Name(),
	)

	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	newStatus, err := vo.NewTicketStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError("invalid ticket status", cmd.Status)
	}

	actor := resolveAuthor(cmd.ActorName, cmd.ActorEmail, uc.defaultActor)

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		return nil, readError(err, "failed to load ticket")
	}

	change, err := t.ChangeStatus(newStatus, uc.policy, actor)
	if err != nil {
		uc.logger.Warnw("status change rejected", "ticket_id", cmd.TicketID, "error", err)
		if stderrors.Is(err, ticket.ErrTransitionNotAllowed) {
			return nil, errors.NewConflictError("status transition not allowed", err.Error())
		}
		return nil, errors.NewValidationError(err.Error())
	}
	if change == nil {
		uc.logger.Infow("ticket already in requested status", "ticket_id", cmd.TicketID, "status", newStatus)
		return dto.ToTicketDTO(t), nil
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.UpdateStatus(txCtx, t); err != nil {
			return writeError(err, "failed to update ticket status")
		}
		if err := uc.statusChangeRepo.Create(txCtx, change); err != nil {
			return errors.NewRemoteWriteError("failed to record status change", err)
		}
		return appendEvent(txCtx, uc.outboxRepo, ticket.NewTicketStatusChangedEvent(t, change))
	})
	if txErr != nil {
		uc.logger.Errorw("failed to update ticket status", "ticket_id", cmd.TicketID, "error", txErr)
		return nil, txErr
	}

	uc.logger.Infow("ticket status updated successfully",
		"ticket_id", t.ID(),
		"from", change.FromStatus(),
		"to", change.ToStatus(),
		"changed_by", actor.Name(),
	)
	return dto.ToTicketDTO(t), nil
}

// resolveAuthor prefers the explicit identity and falls back to the configured persona.
func resolveAuthor(name, email string, fallback ticket.Author) ticket.Author {
	if author, err := ticket.NewAuthor(name, email); err == nil {
		return author
	}
	return fallback
}
