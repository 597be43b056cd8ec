package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type GetTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, ticketID uint) (*dto.TicketDTO, error) {
	t, err := uc.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return dto.ToTicketDTO(t), nil
}

func (uc *GetTicketUseCase) load(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if ticketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	t, err := uc.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		mapped := readError(err, "failed to get ticket")
		if !errors.IsNotFoundError(mapped) {
			uc.logger.Errorw("failed to get ticket", "ticket_id", ticketID, "error", err)
		}
		return nil, mapped
	}
	return t, nil
}
