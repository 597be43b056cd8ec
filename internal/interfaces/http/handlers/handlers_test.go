package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agentdto "github.com/orris-inc/helpdesk/internal/application/agent/dto"
	agentusecases "github.com/orris-inc/helpdesk/internal/application/agent/usecases"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type mockLoginUC struct {
	got    agentusecases.LoginCommand
	result *agentdto.LoginResultDTO
	err    error
}

func (m *mockLoginUC) Execute(_ context.Context, cmd agentusecases.LoginCommand) (*agentdto.LoginResultDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &mockLoginUC{result: &agentdto.LoginResultDTO{
			AccessToken: "token",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
			Agent:       &agentdto.AgentDTO{ID: 1, Email: "sam@helpdesk.local", Role: "agent"},
		}}
		h := NewAuthHandler(uc, logger.NewNop())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "sam@helpdesk.local",
			"password": "secret-password",
		})
		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sam@helpdesk.local", uc.got.Email)

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.True(t, resp.Success)
		assert.Contains(t, string(resp.Data), `"access_token":"token"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		uc := &mockLoginUC{err: errors.NewUnauthorizedError("invalid email or password")}
		h := NewAuthHandler(uc, logger.NewNop())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "sam@helpdesk.local",
			"password": "wrong",
		})
		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		uc := &mockLoginUC{}
		h := NewAuthHandler(uc, logger.NewNop())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "nope"})
		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, uc.got.Email)
	})
}

func TestHealthHandler(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return assert.AnError })

	c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
	NewHealthHandler("1.0.0", map[string]Pinger{"database": up}).HealthCheck(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)

	c, w = testutil.NewTestContext(http.MethodGet, "/health", nil)
	NewHealthHandler("1.0.0", map[string]Pinger{"database": up, "redis": down}).HealthCheck(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"down"`)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

type mockListAgentsUC struct {
	result []*agentdto.AgentDTO
	err    error
}

func (m *mockListAgentsUC) Execute(context.Context) ([]*agentdto.AgentDTO, error) {
	return m.result, m.err
}

func TestAgentHandler_ListAgents(t *testing.T) {
	uc := &mockListAgentsUC{result: []*agentdto.AgentDTO{
		{ID: 1, Name: "Ada Admin", Email: "ada@helpdesk.local", Role: "admin", Active: true},
	}}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/admin/agents", nil)
	NewAgentHandler(uc, logger.NewNop()).ListAgents(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"ada@helpdesk.local"`)

	c, w = testutil.NewTestContext(http.MethodGet, "/api/v1/admin/agents", nil)
	NewAgentHandler(&mockListAgentsUC{err: errors.NewRemoteReadError("failed to list agents", assert.AnError)}, logger.NewNop()).ListAgents(c)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
