package ticket

import (
	"time"

	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
)

// StatusChange is an immutable audit entry for one status transition.
type StatusChange struct {
	id         uint
	ticketID   uint
	fromStatus vo.TicketStatus
	toStatus   vo.TicketStatus
	changedBy  Author
	policy     string
	createdAt  time.Time
}

func NewStatusChange(ticketID uint, from, to vo.TicketStatus, changedBy Author, policy string, at time.Time) *StatusChange {
	return &StatusChange{
		ticketID:   ticketID,
		fromStatus: from,
		toStatus:   to,
		changedBy:  changedBy,
		policy:     policy,
		createdAt:  at,
	}
}

func ReconstructStatusChange(id, ticketID uint, from, to vo.TicketStatus, changedBy Author, policy string, createdAt time.Time) *StatusChange {
	sc := NewStatusChange(ticketID, from, to, changedBy, policy, createdAt)
	sc.id = id
	return sc
}

func (s *StatusChange) ID() uint                    { return s.id }
func (s *StatusChange) TicketID() uint              { return s.ticketID }
func (s *StatusChange) FromStatus() vo.TicketStatus { return s.fromStatus }
func (s *StatusChange) ToStatus() vo.TicketStatus   { return s.toStatus }
func (s *StatusChange) ChangedBy() Author           { return s.changedBy }
func (s *StatusChange) Policy() string              { return s.policy }
func (s *StatusChange) CreatedAt() time.Time        { return s.createdAt }

func (s *StatusChange) SetID(id uint) {
	s.id = id
}
