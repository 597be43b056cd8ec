package usecases

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type CountTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewCountTicketsUseCase(
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *CountTicketsUseCase {
	return &CountTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// Execute counts tickets per status with one query per status run concurrently.
func (uc *CountTicketsUseCase) Execute(ctx context.Context) (*dto.StatusCountsDTO, error) {
	counts, err := uc.byStatus(ctx)
	if err != nil {
		return nil, err
	}
	result := dto.ToStatusCountsDTO(counts)
	return &result, nil
}

// CountActive counts tickets that are NEW or IN_PROGRESS.
func (uc *CountTicketsUseCase) CountActive(ctx context.Context) (int64, error) {
	count, err := uc.ticketRepo.Count(ctx, ticket.TicketFilter{Statuses: vo.ActiveStatuses})
	if err != nil {
		uc.logger.Errorw("failed to count active tickets", "error", err)
		return 0, errors.NewRemoteReadError("failed to count active tickets", err)
	}
	return count, nil
}

func (uc *CountTicketsUseCase) byStatus(ctx context.Context) (ticket.StatusCounts, error) {
	var counts ticket.StatusCounts

	// Each goroutine writes to a distinct field and Wait provides the happens-before edge.
	g, gctx := errgroup.WithContext(ctx)
	targets := map[vo.TicketStatus]*int64{
		vo.StatusNew:        &counts.New,
		vo.StatusInProgress: &counts.InProgress,
		vo.StatusResolved:   &counts.Resolved,
	}
	for status, target := range targets {
		g.Go(func() error {
			n, err := uc.ticketRepo.Count(gctx, ticket.TicketFilter{Statuses: []vo.TicketStatus{status}})
			if err != nil {
				return errors.NewRemoteReadError("failed to count "+status.String()+" tickets", err)
			}
			*target = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to count tickets by status", "error", err)
		return ticket.StatusCounts{}, err
	}
	return counts, nil
}
