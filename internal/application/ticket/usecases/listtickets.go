package usecases

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

// ListTicketsQuery selects tickets by status. An empty Status lists everything.
// ActiveOnly restricts the result to NEW and IN_PROGRESS and ignores Status.
type ListTicketsQuery struct {
	Status     string
	ActiveOnly bool
}

type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// Execute returns tickets newest first with their comment counts.
// A filter that matches nothing yields an empty slice.
func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) ([]*dto.TicketSummaryDTO, error) {
	filter, err := buildTicketFilter(query)
	if err != nil {
		return nil, err
	}

	summaries, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "statuses", filter.Statuses, "error", err)
		return nil, errors.NewRemoteReadError("failed to list tickets", err)
	}

	return mapper.MapSlice(summaries, dto.ToTicketSummaryDTO), nil
}

func buildTicketFilter(query ListTicketsQuery) (ticket.TicketFilter, error) {
	if query.ActiveOnly {
		return ticket.TicketFilter{Statuses: vo.ActiveStatuses}, nil
	}

	status, err := vo.ParseStatusFilter(query.Status)
	if err != nil {
		return ticket.TicketFilter{}, errors.NewValidationError("invalid status filter", query.Status)
	}
	if status == nil {
		return ticket.TicketFilter{}, nil
	}
	return ticket.TicketFilter{Statuses: []vo.TicketStatus{*status}}, nil
}
