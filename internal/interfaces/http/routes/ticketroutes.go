package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/infrastructure/permission"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/handlers"
	tickethandlers "github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/ticket"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/middleware"
	"github.com/orris-inc/helpdesk/internal/shared/authorization"
)

// CustomerRouteConfig wires the public routes used by the mobile app.
type CustomerRouteConfig struct {
	CustomerHandler   *tickethandlers.CustomerHandler
	AttachmentHandler *tickethandlers.AttachmentHandler
	SubmitLimiter     *middleware.RateLimiter
	UploadLimiter     *middleware.RateLimiter
}

func SetupCustomerRoutes(api *gin.RouterGroup, config *CustomerRouteConfig) {
	tickets := api.Group("/tickets")
	{
		tickets.POST("", limit(config.SubmitLimiter), config.CustomerHandler.SubmitTicket)
		// Specific paths BEFORE /:id
		tickets.GET("/active", config.CustomerHandler.GetActiveTickets)
		tickets.GET("/:id", config.CustomerHandler.GetTicket)
	}

	attachments := api.Group("/attachments")
	{
		attachments.POST("", limit(config.UploadLimiter), config.AttachmentHandler.StageFile)
		attachments.DELETE("/staged", config.AttachmentHandler.RemoveStagedFile)
		attachments.GET("/:id/open", config.AttachmentHandler.OpenAttachment)
	}
}

// AdminRouteConfig wires the agent panel routes.
type AdminRouteConfig struct {
	AdminHandler         *tickethandlers.AdminHandler
	AgentHandler         *handlers.AgentHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupAdminRoutes(api *gin.RouterGroup, config *AdminRouteConfig) {
	admin := api.Group("/admin")
	admin.Use(config.AuthMiddleware.RequireAuth())

	can := config.PermissionMiddleware.RequirePermission
	h := config.AdminHandler

	admin.GET("/dashboard", can(permission.ResourceTickets, permission.ActionRead), h.GetDashboard)

	tickets := admin.Group("/tickets")
	{
		tickets.GET("", can(permission.ResourceTickets, permission.ActionRead), h.ListTickets)
		tickets.GET("/counts", can(permission.ResourceTickets, permission.ActionRead), h.CountTickets)

		tickets.GET("/:id", can(permission.ResourceTickets, permission.ActionRead), h.GetTicketDetail)
		tickets.PATCH("/:id/status", can(permission.ResourceTickets, permission.ActionUpdateStatus), h.UpdateTicketStatus)
		tickets.POST("/:id/comments", can(permission.ResourceTickets, permission.ActionComment), h.AddComment)
		tickets.GET("/:id/comments", can(permission.ResourceTickets, permission.ActionRead), h.ListComments)
		tickets.GET("/:id/attachments", can(permission.ResourceAttachments, permission.ActionRead), h.ListAttachments)
	}

	admin.GET("/agents", authorization.RequireAdmin(), config.AgentHandler.ListAgents)
}

// limit returns a pass-through handler when rate limiting is disabled.
func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.Limit()
}
