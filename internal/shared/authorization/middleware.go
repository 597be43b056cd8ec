package authorization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

// RequireAdmin only lets agents with the admin role through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ParseAgentRole(c.GetString(constants.ContextKeyAgentRole))
		if !role.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"type": "forbidden", "message": "admin access required"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
