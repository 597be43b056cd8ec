package http

import (
	"github.com/orris-inc/helpdesk/internal/domain/agent"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/repository"
	"github.com/orris-inc/helpdesk/internal/shared/db"
)

// repositories holds the repository instances used by the application.
type repositories struct {
	ticketRepo       ticket.TicketRepository
	commentRepo      ticket.CommentRepository
	attachmentRepo   ticket.AttachmentRepository
	statusChangeRepo ticket.StatusChangeRepository
	outboxRepo       ticket.OutboxRepository
	agentRepo        agent.Repository
	txMgr            *db.TransactionManager
}

func (c *Container) initRepositories() {
	c.repos = &repositories{
		ticketRepo:       repository.NewTicketRepository(c.db),
		commentRepo:      repository.NewCommentRepository(c.db),
		attachmentRepo:   repository.NewAttachmentRepository(c.db),
		statusChangeRepo: repository.NewStatusChangeRepository(c.db),
		outboxRepo:       repository.NewOutboxRepository(c.db),
		agentRepo:        repository.NewAgentRepository(c.db, c.log.With("component", "repository.agent")),
		txMgr:            db.NewTransactionManager(c.db),
	}
}
