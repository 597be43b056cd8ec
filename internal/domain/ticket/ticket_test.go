package ticket

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
)

func testAgent(t *testing.T) Author {
	t.Helper()
	a, err := NewAuthor("Support Agent", "agent@example.com")
	require.NoError(t, err)
	return a
}

func persistedTicket(t *testing.T, status vo.TicketStatus) *Ticket {
	t.Helper()
	tk, err := NewTicket("Jane", "jane@example.com", "App crashes on launch")
	require.NoError(t, err)
	require.NoError(t, tk.SetID(7))
	tk.status = status
	return tk
}

func TestNewTicket(t *testing.T) {
	tests := []struct {
		name        string
		custName    string
		email       string
		description string
		wantErr     string
	}{
		{name: "valid", custName: "  Jane  ", email: "jane@example.com", description: "Broken"},
		{name: "missing name", custName: " ", email: "jane@example.com", description: "Broken", wantErr: "name is required"},
		{name: "name too long", custName: strings.Repeat("a", MaxNameLength+1), email: "jane@example.com", description: "Broken", wantErr: "name exceeds"},
		{name: "missing email", custName: "Jane", email: "", description: "Broken", wantErr: "email is required"},
		{name: "missing description", custName: "Jane", email: "jane@example.com", description: "", wantErr: "description is required"},
		{name: "description too long", custName: "Jane", email: "jane@example.com", description: strings.Repeat("d", MaxDescriptionLength+1), wantErr: "description exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk, err := NewTicket(tt.custName, tt.email, tt.description)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Jane", tk.Name())
			assert.Equal(t, vo.StatusNew, tk.Status())
			assert.Zero(t, tk.ID())
			assert.False(t, tk.CreatedAt().IsZero())
		})
	}
}

func TestTicket_SetID(t *testing.T) {
	tk, err := NewTicket("Jane", "jane@example.com", "Broken")
	require.NoError(t, err)

	assert.Error(t, tk.SetID(0))
	require.NoError(t, tk.SetID(3))
	assert.Equal(t, uint(3), tk.ID())
	assert.Error(t, tk.SetID(4))
}

func TestReconstructTicket_RejectsUnknownStatus(t *testing.T) {
	_, err := ReconstructTicket(1, "Jane", "jane@example.com", "Broken", vo.TicketStatus("CLOSED"), testNow, testNow)
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestTicket_ChangeStatus_Permissive(t *testing.T) {
	agent := testAgent(t)

	t.Run("forward step is audited", func(t *testing.T) {
		tk := persistedTicket(t, vo.StatusNew)
		change, err := tk.ChangeStatus(vo.StatusInProgress, PermissiveTransitionPolicy{}, agent)
		require.NoError(t, err)
		require.NotNil(t, change)
		assert.Equal(t, vo.StatusInProgress, tk.Status())
		assert.Equal(t, vo.StatusNew, change.FromStatus())
		assert.Equal(t, vo.StatusInProgress, change.ToStatus())
		assert.Equal(t, uint(7), change.TicketID())
		assert.Equal(t, PolicyPermissive, change.Policy())
		assert.Equal(t, "agent@example.com", change.ChangedBy().Email())
	})

	t.Run("reopen resolved ticket", func(t *testing.T) {
		tk := persistedTicket(t, vo.StatusResolved)
		change, err := tk.ChangeStatus(vo.StatusNew, PermissiveTransitionPolicy{}, agent)
		require.NoError(t, err)
		require.NotNil(t, change)
		assert.Equal(t, vo.StatusNew, tk.Status())
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		tk := persistedTicket(t, vo.StatusInProgress)
		before := tk.UpdatedAt()
		change, err := tk.ChangeStatus(vo.StatusInProgress, PermissiveTransitionPolicy{}, agent)
		require.NoError(t, err)
		assert.Nil(t, change)
		assert.Equal(t, before, tk.UpdatedAt())
	})

	t.Run("invalid status", func(t *testing.T) {
		tk := persistedTicket(t, vo.StatusNew)
		_, err := tk.ChangeStatus(vo.TicketStatus("DONE"), PermissiveTransitionPolicy{}, agent)
		assert.True(t, errors.Is(err, ErrInvalidStatus))
		assert.Equal(t, vo.StatusNew, tk.Status())
	})
}

func TestTicket_ChangeStatus_ForwardOnly(t *testing.T) {
	agent := testAgent(t)
	policy := ForwardOnlyTransitionPolicy{}

	tk := persistedTicket(t, vo.StatusNew)
	_, err := tk.ChangeStatus(vo.StatusResolved, policy, agent)
	assert.True(t, errors.Is(err, ErrTransitionNotAllowed))
	assert.Equal(t, vo.StatusNew, tk.Status())

	_, err = tk.ChangeStatus(vo.StatusInProgress, policy, agent)
	require.NoError(t, err)
	_, err = tk.ChangeStatus(vo.StatusResolved, policy, agent)
	require.NoError(t, err)

	_, err = tk.ChangeStatus(vo.StatusNew, policy, agent)
	assert.True(t, errors.Is(err, ErrTransitionNotAllowed))
	assert.Equal(t, vo.StatusResolved, tk.Status())
}

func TestNewTicket_CountsCharactersNotBytes(t *testing.T) {
	name := strings.Repeat("é", MaxNameLength)
	description := strings.Repeat("日", MaxDescriptionLength)

	tk, err := NewTicket(name, "jose@example.com", description)
	require.NoError(t, err)
	assert.Equal(t, name, tk.Name())

	_, err = NewTicket(strings.Repeat("é", MaxNameLength+1), "jose@example.com", "Broken")
	assert.ErrorContains(t, err, "name exceeds")
}

func TestNewComment_CountsCharactersNotBytes(t *testing.T) {
	c, err := NewComment(1, testAgent(t), strings.Repeat("ü", MaxCommentLength))
	require.NoError(t, err)
	assert.Equal(t, MaxCommentLength, len([]rune(c.Content())))

	_, err = NewComment(1, testAgent(t), strings.Repeat("ü", MaxCommentLength+1))
	assert.ErrorContains(t, err, "content exceeds")
}

func TestNewAuthor(t *testing.T) {
	a, err := NewAuthor(" Support Agent ", "support@helpdesk.local")
	require.NoError(t, err)
	assert.Equal(t, "Support Agent", a.Name())
	assert.Equal(t, "support@helpdesk.local", a.Email())

	for _, email := range []string{"", "not-an-email", "Agent <agent@example.com>"} {
		_, err := NewAuthor("Support Agent", email)
		assert.Error(t, err, email)
	}
}
