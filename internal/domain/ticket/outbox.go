package ticket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/orris-inc/helpdesk/internal/shared/biztime"
)

// OutboxMessage is a ticket event persisted in the same transaction as the change that raised it.
// A relay publishes pending messages until they are delivered or run out of attempts.
type OutboxMessage struct {
	id          uint
	eventType   EventType
	aggregateID uint
	payload     []byte
	attempts    int
	lastError   string
	deliveredAt *time.Time
	createdAt   time.Time
}

func NewOutboxMessage(event TicketEvent) (*OutboxMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}
	return &OutboxMessage{
		eventType:   event.Type,
		aggregateID: event.TicketID,
		payload:     payload,
		createdAt:   biztime.NowUTC(),
	}, nil
}

func ReconstructOutboxMessage(
	id uint,
	eventType EventType,
	aggregateID uint,
	payload []byte,
	attempts int,
	lastError string,
	deliveredAt *time.Time,
	createdAt time.Time,
) *OutboxMessage {
	return &OutboxMessage{
		id:          id,
		eventType:   eventType,
		aggregateID: aggregateID,
		payload:     payload,
		attempts:    attempts,
		lastError:   lastError,
		deliveredAt: deliveredAt,
		createdAt:   createdAt,
	}
}

func (m *OutboxMessage) ID() uint                { return m.id }
func (m *OutboxMessage) EventType() EventType    { return m.eventType }
func (m *OutboxMessage) AggregateID() uint       { return m.aggregateID }
func (m *OutboxMessage) Payload() []byte         { return m.payload }
func (m *OutboxMessage) Attempts() int           { return m.attempts }
func (m *OutboxMessage) LastError() string       { return m.lastError }
func (m *OutboxMessage) DeliveredAt() *time.Time { return m.deliveredAt }
func (m *OutboxMessage) CreatedAt() time.Time    { return m.createdAt }

func (m *OutboxMessage) SetID(id uint) {
	m.id = id
}

// Event decodes the payload back into a TicketEvent.
func (m *OutboxMessage) Event() (TicketEvent, error) {
	var event TicketEvent
	if err := json.Unmarshal(m.payload, &event); err != nil {
		return TicketEvent{}, fmt.Errorf("failed to decode outbox message %d: %w", m.id, err)
	}
	return event, nil
}
