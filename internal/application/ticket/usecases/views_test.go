package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
	apperrors "github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// countingTicketRepo answers Count per status and List from a fixed set of summaries.
func countingTicketRepo(t *testing.T, perStatus map[vo.TicketStatus]int64) *mockTicketRepository {
	return &mockTicketRepository{
		CountFunc: func(ctx context.Context, filter ticket.TicketFilter) (int64, error) {
			var total int64
			for _, s := range filter.Statuses {
				total += perStatus[s]
			}
			return total, nil
		},
		ListFunc: func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.TicketSummary, error) {
			var out []*ticket.TicketSummary
			for i, s := range filter.Statuses {
				if perStatus[s] > 0 {
					out = append(out, &ticket.TicketSummary{Ticket: existingTicket(t, uint(i+1), s), CommentCount: 2})
				}
			}
			return out, nil
		},
	}
}

func TestListTicketsUseCase_Execute(t *testing.T) {
	var seen ticket.TicketFilter
	repo := &mockTicketRepository{
		ListFunc: func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.TicketSummary, error) {
			seen = filter
			return nil, nil
		},
	}
	uc := NewListTicketsUseCase(repo, logger.NewNop())

	result, err := uc.Execute(context.Background(), ListTicketsQuery{Status: "in_progress"})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.Equal(t, []vo.TicketStatus{vo.StatusInProgress}, seen.Statuses)

	_, err = uc.Execute(context.Background(), ListTicketsQuery{})
	require.NoError(t, err)
	assert.Empty(t, seen.Statuses)

	_, err = uc.Execute(context.Background(), ListTicketsQuery{ActiveOnly: true, Status: "RESOLVED"})
	require.NoError(t, err)
	assert.Equal(t, vo.ActiveStatuses, seen.Statuses)

	_, err = uc.Execute(context.Background(), ListTicketsQuery{Status: "ARCHIVED"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestListTicketsUseCase_Execute_ReadFailureIsTyped(t *testing.T) {
	repo := &mockTicketRepository{
		ListFunc: func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.TicketSummary, error) {
			return nil, errors.New("connection reset")
		},
	}
	uc := NewListTicketsUseCase(repo, logger.NewNop())

	result, err := uc.Execute(context.Background(), ListTicketsQuery{})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRemoteRead))
}

func TestCountTicketsUseCase_Execute(t *testing.T) {
	repo := countingTicketRepo(t, map[vo.TicketStatus]int64{
		vo.StatusNew:        3,
		vo.StatusInProgress: 2,
	})
	uc := NewCountTicketsUseCase(repo, logger.NewNop())

	counts, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.New)
	assert.Equal(t, int64(2), counts.InProgress)
	assert.Equal(t, int64(0), counts.Resolved)
	assert.Equal(t, counts.New+counts.InProgress+counts.Resolved, counts.Total)

	active, err := uc.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), active)
}

func TestCountTicketsUseCase_Execute_FirstFailureWins(t *testing.T) {
	repo := &mockTicketRepository{
		CountFunc: func(ctx context.Context, filter ticket.TicketFilter) (int64, error) {
			if filter.Statuses[0] == vo.StatusResolved {
				return 0, errors.New("query timeout")
			}
			return 1, nil
		},
	}
	uc := NewCountTicketsUseCase(repo, logger.NewNop())

	_, err := uc.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRemoteRead))
}

func TestGetDashboardUseCase_Execute(t *testing.T) {
	repo := countingTicketRepo(t, map[vo.TicketStatus]int64{vo.StatusInProgress: 4, vo.StatusResolved: 1})
	log := logger.NewNop()
	uc := NewGetDashboardUseCase(NewCountTicketsUseCase(repo, log), NewListTicketsUseCase(repo, log), log)

	result, err := uc.Execute(context.Background(), DashboardQuery{Status: "IN_PROGRESS"})
	require.NoError(t, err)
	require.NotNil(t, result.Filter)
	assert.Equal(t, "IN_PROGRESS", *result.Filter)
	assert.Equal(t, int64(5), result.Counts.Total)
	require.Len(t, result.Tickets, 1)
	assert.Equal(t, "IN_PROGRESS", result.Tickets[0].Status)
	assert.Equal(t, int64(2), result.Tickets[0].CommentCount)

	_, err = uc.Execute(context.Background(), DashboardQuery{Status: "bogus"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestGetCustomerOverviewUseCase_Execute(t *testing.T) {
	repo := countingTicketRepo(t, map[vo.TicketStatus]int64{vo.StatusNew: 1, vo.StatusInProgress: 1, vo.StatusResolved: 7})
	log := logger.NewNop()
	uc := NewGetCustomerOverviewUseCase(NewCountTicketsUseCase(repo, log), NewListTicketsUseCase(repo, log), log)

	result, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.ActiveCount)
	assert.Len(t, result.Tickets, 2)
	for _, tk := range result.Tickets {
		assert.NotEqual(t, "RESOLVED", tk.Status)
	}
}

func TestGetTicketDetailUseCase_Execute(t *testing.T) {
	persona := testPersona(t)
	comment, err := ticket.ReconstructComment(1, 5, persona, "**bold**", fixedTime, fixedTime)
	require.NoError(t, err)
	change := ticket.ReconstructStatusChange(1, 5, vo.StatusNew, vo.StatusInProgress, persona, ticket.PolicyPermissive, fixedTime.Add(time.Hour))

	uc := NewGetTicketDetailUseCase(
		ticketLookup(existingTicket(t, 5, vo.StatusInProgress)),
		&mockCommentRepository{ListByTicketIDFunc: func(ctx context.Context, id uint) ([]*ticket.Comment, error) {
			return []*ticket.Comment{comment}, nil
		}},
		&mockAttachmentRepository{ListByTicketIDFunc: func(ctx context.Context, id uint) ([]*ticket.Attachment, error) {
			return []*ticket.Attachment{storedAttachment(t, 1, "attachments/doc.pdf", "application/pdf")}, nil
		}},
		&mockStatusChangeRepository{ListByTicketIDFunc: func(ctx context.Context, id uint) ([]*ticket.StatusChange, error) {
			return []*ticket.StatusChange{change}, nil
		}},
		mockRenderer{},
		logger.NewNop(),
	)

	detail, err := uc.Execute(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), detail.Ticket.ID)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "<p>**bold**</p>\n", detail.Comments[0].ContentHTML)
	assert.Len(t, detail.Attachments, 1)
	require.Len(t, detail.StatusHistory, 1)
	assert.Equal(t, "IN_PROGRESS", detail.StatusHistory[0].ToStatus)

	_, err = uc.Execute(context.Background(), 6)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestGetTicketDetailUseCase_Execute_PartialReadFailure(t *testing.T) {
	uc := NewGetTicketDetailUseCase(
		ticketLookup(existingTicket(t, 5, vo.StatusNew)),
		&mockCommentRepository{},
		&mockAttachmentRepository{ListByTicketIDFunc: func(ctx context.Context, id uint) ([]*ticket.Attachment, error) {
			return nil, errors.New("replica lag")
		}},
		&mockStatusChangeRepository{},
		mockRenderer{},
		logger.NewNop(),
	)

	detail, err := uc.Execute(context.Background(), 5)
	require.Error(t, err)
	assert.Nil(t, detail)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRemoteRead))
}
