package ticket

import (
	"time"

	"github.com/orris-inc/helpdesk/internal/shared/biztime"
)

// EventType names a ticket lifecycle event delivered to notification consumers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket.created"
	EventTicketStatusChanged EventType = "ticket.status_changed"
	EventTicketCommentAdded  EventType = "ticket.comment_added"
)

// TicketEvent is the payload carried through the outbox and the event bus.
type TicketEvent struct {
	Type            EventType `json:"type"`
	TicketID        uint      `json:"ticket_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	Description     string    `json:"description,omitempty"`
	AttachmentCount int       `json:"attachment_count,omitempty"`
	OldStatus       string    `json:"old_status,omitempty"`
	NewStatus       string    `json:"new_status,omitempty"`
	CommentID       uint      `json:"comment_id,omitempty"`
	AuthorName      string    `json:"author_name,omitempty"`
	AuthorEmail     string    `json:"author_email,omitempty"`
	Content         string    `json:"content,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func NewTicketCreatedEvent(t *Ticket, attachmentCount int) TicketEvent {
	return TicketEvent{
		Type:            EventTicketCreated,
		TicketID:        t.ID(),
		CustomerName:    t.Name(),
		CustomerEmail:   t.Email(),
		Description:     t.Description(),
		AttachmentCount: attachmentCount,
		NewStatus:       t.Status().String(),
		OccurredAt:      biztime.NowUTC(),
	}
}

func NewTicketStatusChangedEvent(t *Ticket, change *StatusChange) TicketEvent {
	return TicketEvent{
		Type:          EventTicketStatusChanged,
		TicketID:      t.ID(),
		CustomerName:  t.Name(),
		CustomerEmail: t.Email(),
		OldStatus:     change.FromStatus().String(),
		NewStatus:     change.ToStatus().String(),
		AuthorName:    change.ChangedBy().Name(),
		AuthorEmail:   change.ChangedBy().Email(),
		OccurredAt:    change.CreatedAt(),
	}
}

func NewTicketCommentAddedEvent(t *Ticket, c *Comment) TicketEvent {
	return TicketEvent{
		Type:          EventTicketCommentAdded,
		TicketID:      t.ID(),
		CustomerName:  t.Name(),
		CustomerEmail: t.Email(),
		CommentID:     c.ID(),
		AuthorName:    c.Author().Name(),
		AuthorEmail:   c.Author().Email(),
		Content:       c.Content(),
		OccurredAt:    c.CreatedAt(),
	}
}
