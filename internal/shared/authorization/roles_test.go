package authorization

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

func TestParseAgentRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseAgentRole("admin"))
	assert.Equal(t, RoleAgent, ParseAgentRole("agent"))
	assert.Equal(t, RoleAgent, ParseAgentRole("root"))
	assert.Equal(t, RoleAgent, ParseAgentRole(""))
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for role, want := range map[string]int{
		"admin": http.StatusNoContent,
		"agent": http.StatusForbidden,
		"":      http.StatusForbidden,
	} {
		engine := gin.New()
		engine.GET("/x", func(c *gin.Context) {
			c.Set(constants.ContextKeyAgentRole, role)
		}, RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, want, w.Code, "role %q", role)
	}
}
