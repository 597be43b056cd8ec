package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
	"github.com/orris-inc/helpdesk/internal/shared/utils/logutil"
)

type CreateTicketCommand struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Description string `json:"description" validate:"required,min=1,max=5000"`
}

type CreateTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// Execute inserts a ticket in status NEW whatever the caller asked for.
func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	t, err := uc.create(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return dto.ToTicketDTO(t), nil
}

// create joins any transaction carried by ctx.
func (uc *CreateTicketUseCase) create(ctx context.Context, cmd CreateTicketCommand) (*ticket.Ticket, error) {
	uc.logger.Infow("executing create ticket use case", "email", logutil.MaskEmail(cmd.Email))

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Warnw("invalid create ticket command", "error", err)
		return nil, err
	}

	newTicket, err := ticket.NewTicket(cmd.Name, cmd.Email, cmd.Description)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.ticketRepo.Create(ctx, newTicket); err != nil {
		uc.logger.Errorw("failed to insert ticket", "error", err)
		return nil, errors.NewRemoteWriteError("failed to create ticket", err)
	}

	uc.logger.Infow("ticket created successfully", "ticket_id", newTicket.ID())
	return newTicket, nil
}
