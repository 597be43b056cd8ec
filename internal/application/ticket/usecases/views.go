package usecases

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

type DashboardQuery struct {
	Status string
}

// GetDashboardUseCase joins the status counts with the filtered ticket list for the admin home screen.
type GetDashboardUseCase struct {
	counter *CountTicketsUseCase
	lister  *ListTicketsUseCase
	logger  logger.Interface
}

func NewGetDashboardUseCase(
	counter *CountTicketsUseCase,
	lister *ListTicketsUseCase,
	logger logger.Interface,
) *GetDashboardUseCase {
	return &GetDashboardUseCase{
		counter: counter,
		lister:  lister,
		logger:  logger,
	}
}

func (uc *GetDashboardUseCase) Execute(ctx context.Context, query DashboardQuery) (*dto.DashboardDTO, error) {
	uc.logger.Debugw("fetching dashboard", "status", query.Status)

	filter, err := vo.ParseStatusFilter(query.Status)
	if err != nil {
		return nil, errors.NewValidationError("invalid status filter", query.Status)
	}

	var (
		counts  *dto.StatusCountsDTO
		tickets []*dto.TicketSummaryDTO
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = uc.counter.Execute(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tickets, err = uc.lister.Execute(gctx, ListTicketsQuery{Status: query.Status})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DashboardDTO{
		Counts:  *counts,
		Filter:  dto.FilterString(filter),
		Tickets: tickets,
	}, nil
}

// GetCustomerOverviewUseCase builds the customer's active ticket panel.
type GetCustomerOverviewUseCase struct {
	counter *CountTicketsUseCase
	lister  *ListTicketsUseCase
	logger  logger.Interface
}

func NewGetCustomerOverviewUseCase(
	counter *CountTicketsUseCase,
	lister *ListTicketsUseCase,
	logger logger.Interface,
) *GetCustomerOverviewUseCase {
	return &GetCustomerOverviewUseCase{
		counter: counter,
		lister:  lister,
		logger:  logger,
	}
}

func (uc *GetCustomerOverviewUseCase) Execute(ctx context.Context) (*dto.CustomerOverviewDTO, error) {
	var (
		activeCount int64
		tickets     []*dto.TicketSummaryDTO
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activeCount, err = uc.counter.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tickets, err = uc.lister.Execute(gctx, ListTicketsQuery{ActiveOnly: true})
		return err
	})
	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to build customer overview", "error", err)
		return nil, err
	}

	return &dto.CustomerOverviewDTO{
		ActiveCount: activeCount,
		Tickets:     tickets,
	}, nil
}

// GetTicketDetailUseCase loads a ticket, then its comments, attachments and status history in parallel.
type GetTicketDetailUseCase struct {
	ticketRepo       ticket.TicketRepository
	commentRepo      ticket.CommentRepository
	attachmentRepo   ticket.AttachmentRepository
	statusChangeRepo ticket.StatusChangeRepository
	renderer         MarkdownRenderer
	logger           logger.Interface
}

func NewGetTicketDetailUseCase(
	ticketRepo ticket.TicketRepository,
	commentRepo ticket.CommentRepository,
	attachmentRepo ticket.AttachmentRepository,
	statusChangeRepo ticket.StatusChangeRepository,
	renderer MarkdownRenderer,
	logger logger.Interface,
) *GetTicketDetailUseCase {
	return &GetTicketDetailUseCase{
		ticketRepo:       ticketRepo,
		commentRepo:      commentRepo,
		attachmentRepo:   attachmentRepo,
		statusChangeRepo: statusChangeRepo,
		renderer:         renderer,
		logger:           logger,
	}
}

func (uc *GetTicketDetailUseCase) Execute(ctx context.Context, ticketID uint) (*dto.TicketDetailDTO, error) {
	if ticketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	t, err := uc.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, readError(err, "failed to load ticket")
	}

	var (
		comments    []*ticket.Comment
		attachments []*ticket.Attachment
		history     []*ticket.StatusChange
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if comments, err = uc.commentRepo.ListByTicketID(gctx, ticketID); err != nil {
			return errors.NewRemoteReadError("failed to list comments", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if attachments, err = uc.attachmentRepo.ListByTicketID(gctx, ticketID); err != nil {
			return errors.NewRemoteReadError("failed to list attachments", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if history, err = uc.statusChangeRepo.ListByTicketID(gctx, ticketID); err != nil {
			return errors.NewRemoteReadError("failed to list status history", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to load ticket detail", "ticket_id", ticketID, "error", err)
		return nil, err
	}

	return &dto.TicketDetailDTO{
		Ticket:        dto.ToTicketDTO(t),
		Comments:      toCommentDTOs(uc.renderer, uc.logger, comments),
		Attachments:   mapper.MapSlice(attachments, dto.ToAttachmentDTO),
		StatusHistory: mapper.MapSlice(history, dto.ToStatusChangeDTO),
	}, nil
}
