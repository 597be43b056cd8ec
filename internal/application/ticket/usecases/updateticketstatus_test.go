package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	apperrors "github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type statusFixture struct {
	tickets *mockTicketRepository
	changes []*ticket.StatusChange
	outbox  *mockOutboxRepository
	updated int
	uc      *UpdateTicketStatusUseCase
}

func newStatusFixture(t *testing.T, current *ticket.Ticket, policy ticket.TransitionPolicy) *statusFixture {
	f := &statusFixture{outbox: &mockOutboxRepository{}}
	f.tickets = &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			if current == nil || id != current.ID() {
				return nil, ticket.ErrTicketNotFound
			}
			return current, nil
		},
		UpdateStatusFunc: func(ctx context.Context, tk *ticket.Ticket) error {
			f.updated++
			return nil
		},
	}
	changeRepo := &mockStatusChangeRepository{
		CreateFunc: func(ctx context.Context, change *ticket.StatusChange) error {
			f.changes = append(f.changes, change)
			return nil
		},
	}
	f.uc = NewUpdateTicketStatusUseCase(f.tickets, changeRepo, f.outbox, policy, testPersona(t), &mockTxRunner{}, logger.NewNop())
	return f
}

func TestUpdateTicketStatusUseCase_Execute_Success(t *testing.T) {
	f := newStatusFixture(t, existingTicket(t, 7, vo.StatusNew), ticket.PermissiveTransitionPolicy{})

	result, err := f.uc.Execute(context.Background(), UpdateTicketStatusCommand{
		TicketID:   7,
		Status:     "IN_PROGRESS",
		ActorName:  "Alex Agent",
		ActorEmail: "alex@helpdesk.local",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), result.ID)
	assert.Equal(t, "IN_PROGRESS", result.Status)
	assert.Equal(t, 1, f.updated)
	require.Len(t, f.changes, 1)
	assert.Equal(t, vo.StatusNew, f.changes[0].FromStatus())
	assert.Equal(t, vo.StatusInProgress, f.changes[0].ToStatus())
	assert.Equal(t, "Alex Agent", f.changes[0].ChangedBy().Name())
	assert.Equal(t, ticket.PolicyPermissive, f.changes[0].Policy())
	assert.Equal(t, []ticket.EventType{ticket.EventTicketStatusChanged}, f.outbox.events())
}

func TestUpdateTicketStatusUseCase_Execute_PermissiveAllowsBackwards(t *testing.T) {
	f := newStatusFixture(t, existingTicket(t, 7, vo.StatusResolved), ticket.PermissiveTransitionPolicy{})

	result, err := f.uc.Execute(context.Background(), UpdateTicketStatusCommand{TicketID: 7, Status: "new"})
	require.NoError(t, err)
	assert.Equal(t, "NEW", result.Status)
	require.Len(t, f.changes, 1)
	assert.Equal(t, "Support Agent", f.changes[0].ChangedBy().Name(), "falls back to the configured persona")
}

func TestUpdateTicketStatusUseCase_Execute_SameStatusIsNoop(t *testing.T) {
	f := newStatusFixture(t, existingTicket(t, 7, vo.StatusInProgress), ticket.PermissiveTransitionPolicy{})

	result, err := f.uc.Execute(context.Background(), UpdateTicketStatusCommand{TicketID: 7, Status: "IN_PROGRESS"})
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", result.Status)
	assert.Zero(t, f.updated)
	assert.Empty(t, f.changes)
	assert.Empty(t, f.outbox.events())
}

func TestUpdateTicketStatusUseCase_Execute_ForwardOnlyRejectsBackwards(t *testing.T) {
	f := newStatusFixture(t, existingTicket(t, 7, vo.StatusResolved), ticket.ForwardOnlyTransitionPolicy{})

	_, err := f.uc.Execute(context.Background(), UpdateTicketStatusCommand{TicketID: 7, Status: "NEW"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Zero(t, f.updated)
}

func TestUpdateTicketStatusUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		cmd      UpdateTicketStatusCommand
		errCheck func(error) bool
	}{
		{"unknown status", UpdateTicketStatusCommand{TicketID: 7, Status: "CLOSED"}, apperrors.IsValidationError},
		{"missing ticket ID", UpdateTicketStatusCommand{Status: "NEW"}, apperrors.IsValidationError},
		{"ticket not found", UpdateTicketStatusCommand{TicketID: 99, Status: "NEW"}, apperrors.IsNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStatusFixture(t, existingTicket(t, 7, vo.StatusNew), ticket.PermissiveTransitionPolicy{})
			_, err := f.uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, tt.errCheck(err), "unexpected error: %v", err)
		})
	}
}

func TestUpdateTicketStatusUseCase_Execute_WriteFailure(t *testing.T) {
	f := newStatusFixture(t, existingTicket(t, 7, vo.StatusNew), ticket.PermissiveTransitionPolicy{})
	f.tickets.UpdateStatusFunc = func(ctx context.Context, tk *ticket.Ticket) error {
		return errors.New("lock wait timeout")
	}

	_, err := f.uc.Execute(context.Background(), UpdateTicketStatusCommand{TicketID: 7, Status: "RESOLVED"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRemoteWrite))
	assert.Empty(t, f.outbox.events())
}
