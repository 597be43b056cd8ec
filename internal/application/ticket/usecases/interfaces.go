package usecases

import (
	"context"
	"io"
	"time"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/storage"
)

// TransactionRunner is satisfied by db.TransactionManager.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ObjectStore is the part of storage.Store the attachment pipeline uses.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error)
	Open(ctx context.Context, key string) (*storage.Object, error)
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Stat(ctx context.Context, key string) (*storage.ObjectInfo, error)
	PublicURL(key string) string
}

// EventPublisher is satisfied by every pubsub.TicketEventBus driver.
type EventPublisher interface {
	Publish(ctx context.Context, eventType ticket.EventType, payload []byte) error
}

// MarkdownRenderer converts comment bodies to sanitized HTML.
type MarkdownRenderer interface {
	ToHTML(markdown string) (string, error)
}

type SubmitTicketExecutor interface {
	Execute(ctx context.Context, cmd SubmitTicketCommand) (*dto.SubmitTicketResultDTO, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, ticketID uint) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) ([]*dto.TicketSummaryDTO, error)
}

type CountTicketsByStatusExecutor interface {
	Execute(ctx context.Context) (*dto.StatusCountsDTO, error)
}

type UpdateTicketStatusExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketStatusCommand) (*dto.TicketDTO, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd AddCommentCommand) (*dto.CommentDTO, error)
}

type ListCommentsExecutor interface {
	Execute(ctx context.Context, ticketID uint) ([]*dto.CommentDTO, error)
}

type StageFileExecutor interface {
	Execute(ctx context.Context, cmd StageFileCommand) (*dto.FileMetaDTO, error)
}

type RemoveStagedFileExecutor interface {
	Execute(ctx context.Context, path string) error
}

type OpenAttachmentExecutor interface {
	Execute(ctx context.Context, query OpenAttachmentQuery) (*OpenPlan, error)
}

type ListAttachmentsExecutor interface {
	Execute(ctx context.Context, ticketID uint) ([]*dto.AttachmentDTO, error)
}

type GetDashboardExecutor interface {
	Execute(ctx context.Context, query DashboardQuery) (*dto.DashboardDTO, error)
}

type GetCustomerOverviewExecutor interface {
	Execute(ctx context.Context) (*dto.CustomerOverviewDTO, error)
}

type GetTicketDetailExecutor interface {
	Execute(ctx context.Context, ticketID uint) (*dto.TicketDetailDTO, error)
}
