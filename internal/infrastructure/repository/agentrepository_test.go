package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/domain/agent"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

func TestAgentRepository(t *testing.T) {
	repo := NewAgentRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	a, err := agent.NewAgent("Alice", "alice@example.com", "hash", authorization.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, a))

	found, err := repo.GetByEmail(ctx, " ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID(), found.ID())
	assert.Equal(t, authorization.RoleAdmin, found.Role())

	found.RecordLogin()
	require.NoError(t, repo.Update(ctx, found))

	reloaded, err := repo.GetByID(ctx, a.ID())
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt())

	dup, err := agent.NewAgent("Other", "alice@example.com", "hash", authorization.RoleAgent)
	require.NoError(t, err)
	assert.Error(t, repo.Create(ctx, dup))

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, agent.ErrAgentNotFound))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
