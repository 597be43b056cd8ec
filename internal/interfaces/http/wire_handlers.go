package http

import (
	"context"

	"github.com/orris-inc/helpdesk/internal/infrastructure/ratelimit"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/handlers"
	tickethandlers "github.com/orris-inc/helpdesk/internal/interfaces/http/handlers/ticket"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/middleware"
)

// allHandlers holds every HTTP handler instance.
type allHandlers struct {
	customerHandler   *tickethandlers.CustomerHandler
	attachmentHandler *tickethandlers.AttachmentHandler
	adminHandler      *tickethandlers.AdminHandler
	authHandler       *handlers.AuthHandler
	agentHandler      *handlers.AgentHandler
	healthHandler     *handlers.HealthHandler
}

type redisPinger struct {
	ping func(ctx context.Context) error
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.ping(ctx)
}

func (c *Container) initHandlers() {
	u := c.ucs

	checks := make(map[string]handlers.Pinger)
	if sqlDB, err := c.db.DB(); err == nil {
		checks["database"] = sqlDB
	}
	if c.redis != nil {
		checks["redis"] = redisPinger{ping: func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}}
	}

	c.hdlrs = &allHandlers{
		customerHandler: tickethandlers.NewCustomerHandler(
			u.submitTicket, u.getTicket, u.customerOverview, c.log,
		),
		attachmentHandler: tickethandlers.NewAttachmentHandler(
			u.stageFile, u.removeStagedFile, u.openAttachment, c.cfg.Storage.MaxUploadBytes, c.log,
		),
		adminHandler: tickethandlers.NewAdminHandler(tickethandlers.AdminHandlerDeps{
			Dashboard:       u.dashboard,
			ListTickets:     u.listTickets,
			CountTickets:    u.countTickets,
			TicketDetail:    u.ticketDetail,
			UpdateStatus:    u.updateStatus,
			AddComment:      u.addComment,
			ListComments:    u.listComments,
			ListAttachments: u.listAttachments,
		}, c.log),
		authHandler:   handlers.NewAuthHandler(u.login, c.log),
		agentHandler:  handlers.NewAgentHandler(u.listAgents, c.log),
		healthHandler: handlers.NewHealthHandler(c.version, checks),
	}
}

func (c *Container) initMiddlewares() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)

	if !c.cfg.RateLimit.Enabled || c.redis == nil {
		c.log.Infow("rate limiting disabled")
		return
	}

	limiter := ratelimit.NewRedisRateLimiter(c.redis)
	limits := ratelimit.Limits{
		RequestsPerMinute: c.cfg.RateLimit.RequestsPerMinute,
		RequestsPerHour:   c.cfg.RateLimit.RequestsPerHour,
	}
	c.submitLimiter = middleware.NewRateLimiter(limiter, limits, "submit", c.log)
	c.uploadLimiter = middleware.NewRateLimiter(limiter, limits, "upload", c.log)
	c.loginLimiter = middleware.NewRateLimiter(limiter, limits, "login", c.log)
}
