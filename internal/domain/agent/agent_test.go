package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

func TestNewAgent(t *testing.T) {
	a, err := NewAgent(" Alice ", " Alice@Example.com ", "hash", authorization.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, "Alice", a.Name())
	assert.Equal(t, "alice@example.com", a.Email())
	assert.True(t, a.IsActive())
	assert.Nil(t, a.LastLoginAt())

	_, err = NewAgent("Alice", "not-an-email", "hash", authorization.RoleAgent)
	assert.Error(t, err)

	_, err = NewAgent("Alice", "alice@example.com", "", authorization.RoleAgent)
	assert.Error(t, err)

	_, err = NewAgent("Alice", "alice@example.com", "hash", authorization.AgentRole("root"))
	assert.Error(t, err)
}

func TestAgent_RecordLogin(t *testing.T) {
	a, err := NewAgent("Alice", "alice@example.com", "hash", authorization.RoleAdmin)
	require.NoError(t, err)

	a.RecordLogin()
	require.NotNil(t, a.LastLoginAt())

	a.Deactivate()
	assert.False(t, a.IsActive())
}
