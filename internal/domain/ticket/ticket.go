package ticket

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	"github.com/orris-inc/helpdesk/internal/shared/biztime"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 5000
)

// Ticket is a customer support request. It is never deleted; only its status changes.
type Ticket struct {
	id          uint
	name        string
	email       string
	description string
	status      vo.TicketStatus
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTicket builds a ticket as submitted by a customer. It always starts as NEW.
func NewTicket(name, email, description string) (*Ticket, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	description = strings.TrimSpace(description)

	if len(name) == 0 {
		return nil, fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, fmt.Errorf("name exceeds maximum length of %d characters", MaxNameLength)
	}
	if len(email) == 0 {
		return nil, fmt.Errorf("email is required")
	}
	if len(description) == 0 {
		return nil, fmt.Errorf("description is required")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, fmt.Errorf("description exceeds maximum length of %d characters", MaxDescriptionLength)
	}

	now := biztime.NowUTC()
	return &Ticket{
		name:        name,
		email:       email,
		description: description,
		status:      vo.StatusNew,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructTicket rebuilds a persisted ticket.
func ReconstructTicket(
	id uint,
	name string,
	email string,
	description string,
	status vo.TicketStatus,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	return &Ticket{
		id:          id,
		name:        name,
		email:       email,
		description: description,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Name() string {
	return t.name
}

func (t *Ticket) Email() string {
	return t.email
}

func (t *Ticket) Description() string {
	return t.description
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// SetTimestamps adopts the timestamps assigned by the store on insert.
func (t *Ticket) SetTimestamps(createdAt, updatedAt time.Time) {
	t.createdAt = createdAt
	t.updatedAt = updatedAt
}

// ChangeStatus moves the ticket to newStatus when policy allows it and returns the audit record.
// Writing the current status again is a no-op and returns a nil change.
func (t *Ticket) ChangeStatus(newStatus vo.TicketStatus, policy TransitionPolicy, actor Author) (*StatusChange, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}
	if newStatus == t.status {
		return nil, nil
	}
	if !policy.Allows(t.status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s under %s policy", ErrTransitionNotAllowed, t.status, newStatus, policy.Name())
	}

	now := biztime.NowUTC()
	change := NewStatusChange(t.id, t.status, newStatus, actor, policy.Name(), now)
	t.status = newStatus
	t.updatedAt = now

	return change, nil
}
