package ticket

import (
	"context"
	"time"

	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	// GetByID returns ErrTicketNotFound when no row matches.
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	UpdateStatus(ctx context.Context, ticket *Ticket) error
	// List orders by creation time, newest first, and annotates each ticket with its comment count.
	List(ctx context.Context, filter TicketFilter) ([]*TicketSummary, error)
	Count(ctx context.Context, filter TicketFilter) (int64, error)
}

// TicketFilter narrows a ticket query. An empty Statuses slice matches every ticket.
type TicketFilter struct {
	Statuses []vo.TicketStatus
}

// TicketSummary is a ticket plus its derived comment count.
type TicketSummary struct {
	Ticket       *Ticket
	CommentCount int64
}

// StatusCounts is the number of tickets in each status.
type StatusCounts struct {
	New        int64
	InProgress int64
	Resolved   int64
}

func (c StatusCounts) Total() int64 {
	return c.New + c.InProgress + c.Resolved
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	// ListByTicketID returns comments newest first.
	ListByTicketID(ctx context.Context, ticketID uint) ([]*Comment, error)
}

type AttachmentRepository interface {
	// CreateBatch inserts every attachment or none of them.
	CreateBatch(ctx context.Context, attachments []*Attachment) error
	// GetByID returns ErrAttachmentNotFound when no row matches.
	GetByID(ctx context.Context, attachmentID uint) (*Attachment, error)
	// ListByTicketID returns attachments newest first.
	ListByTicketID(ctx context.Context, ticketID uint) ([]*Attachment, error)
	ExistsByPath(ctx context.Context, path string) (bool, error)
}

type StatusChangeRepository interface {
	Create(ctx context.Context, change *StatusChange) error
	ListByTicketID(ctx context.Context, ticketID uint) ([]*StatusChange, error)
}

type OutboxRepository interface {
	Append(ctx context.Context, messages ...*OutboxMessage) error
	// FetchPending returns undelivered messages with fewer than maxAttempts attempts, oldest first.
	FetchPending(ctx context.Context, limit, maxAttempts int) ([]*OutboxMessage, error)
	MarkDelivered(ctx context.Context, messageID uint, at time.Time) error
	MarkFailed(ctx context.Context, messageID uint, reason string) error
	// PurgeDelivered deletes messages delivered before the cutoff and returns how many were removed.
	PurgeDelivered(ctx context.Context, before time.Time) (int64, error)
}
