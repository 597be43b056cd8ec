package http

import (
	"fmt"
	"time"

	agentUsecases "github.com/orris-inc/helpdesk/internal/application/agent/usecases"
	ticketUsecases "github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
)

// allUseCases holds the use case instances shared by handlers and jobs.
type allUseCases struct {
	// Customer side
	submitTicket     *ticketUsecases.SubmitTicketUseCase
	getTicket        *ticketUsecases.GetTicketUseCase
	customerOverview *ticketUsecases.GetCustomerOverviewUseCase

	// Attachment pipeline
	stageFile        *ticketUsecases.StageFileUseCase
	removeStagedFile *ticketUsecases.RemoveStagedFileUseCase
	openAttachment   *ticketUsecases.OpenAttachmentUseCase
	listAttachments  *ticketUsecases.ListAttachmentsUseCase

	// Agent panel
	dashboard    *ticketUsecases.GetDashboardUseCase
	listTickets  *ticketUsecases.ListTicketsUseCase
	countTickets *ticketUsecases.CountTicketsUseCase
	ticketDetail *ticketUsecases.GetTicketDetailUseCase
	updateStatus *ticketUsecases.UpdateTicketStatusUseCase
	addComment   *ticketUsecases.AddCommentUseCase
	listComments *ticketUsecases.ListCommentsUseCase

	// Outbox
	relayOutbox   *ticketUsecases.RelayOutboxUseCase
	cleanupOutbox *ticketUsecases.CleanupOutboxUseCase

	// Agents
	login      *agentUsecases.LoginUseCase
	listAgents *agentUsecases.ListAgentsUseCase
}

func (c *Container) initUseCases() error {
	r := c.repos

	persona, err := ticket.NewAuthor(c.cfg.Support.DefaultAuthorName, c.cfg.Support.DefaultAuthorEmail)
	if err != nil {
		return fmt.Errorf("invalid support persona: %w", err)
	}
	policy, err := ticket.NewTransitionPolicy(c.cfg.Support.TransitionPolicy)
	if err != nil {
		return err
	}

	createTicket := ticketUsecases.NewCreateTicketUseCase(r.ticketRepo, c.log)
	commitAttachments := ticketUsecases.NewCommitAttachmentsUseCase(r.attachmentRepo, c.store, c.log)
	countTickets := ticketUsecases.NewCountTicketsUseCase(r.ticketRepo, c.log)
	listTickets := ticketUsecases.NewListTicketsUseCase(r.ticketRepo, c.log)

	hasher := auth.NewBcryptPasswordHasher(c.cfg.Auth.Password.BcryptCost)

	c.ucs = &allUseCases{
		submitTicket: ticketUsecases.NewSubmitTicketUseCase(
			createTicket, commitAttachments, r.outboxRepo, r.attachmentRepo, c.store, r.txMgr, c.log,
		),
		getTicket:        ticketUsecases.NewGetTicketUseCase(r.ticketRepo, c.log),
		customerOverview: ticketUsecases.NewGetCustomerOverviewUseCase(countTickets, listTickets, c.log),

		stageFile:        ticketUsecases.NewStageFileUseCase(c.store, c.cfg.Storage.MaxUploadBytes, c.log),
		removeStagedFile: ticketUsecases.NewRemoveStagedFileUseCase(r.attachmentRepo, c.store, c.log),
		openAttachment:   ticketUsecases.NewOpenAttachmentUseCase(r.attachmentRepo, c.store, c.cfg.Storage.SignedURLTTL, c.log),
		listAttachments:  ticketUsecases.NewListAttachmentsUseCase(r.ticketRepo, r.attachmentRepo, c.log),

		dashboard:    ticketUsecases.NewGetDashboardUseCase(countTickets, listTickets, c.log),
		listTickets:  listTickets,
		countTickets: countTickets,
		ticketDetail: ticketUsecases.NewGetTicketDetailUseCase(
			r.ticketRepo, r.commentRepo, r.attachmentRepo, r.statusChangeRepo, c.renderer, c.log,
		),
		updateStatus: ticketUsecases.NewUpdateTicketStatusUseCase(
			r.ticketRepo, r.statusChangeRepo, r.outboxRepo, policy, persona, r.txMgr, c.log,
		),
		addComment: ticketUsecases.NewAddCommentUseCase(
			r.ticketRepo, r.commentRepo, r.outboxRepo, c.renderer, persona, r.txMgr, c.log,
		),
		listComments: ticketUsecases.NewListCommentsUseCase(r.ticketRepo, r.commentRepo, c.renderer, c.log),

		relayOutbox: ticketUsecases.NewRelayOutboxUseCase(
			r.outboxRepo, c.bus, c.cfg.Events.BatchSize, c.cfg.Events.MaxAttempts, c.log,
		),
		cleanupOutbox: ticketUsecases.NewCleanupOutboxUseCase(
			r.outboxRepo, time.Duration(c.cfg.Events.RetentionDays)*24*time.Hour, c.log,
		),

		login:      agentUsecases.NewLoginUseCase(r.agentRepo, hasher, c.jwtSvc, c.log),
		listAgents: agentUsecases.NewListAgentsUseCase(r.agentRepo, c.log),
	}

	c.log.Infow("use cases initialized", "transition_policy", policy.Name())
	return nil
}
