package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/orris-inc/helpdesk/docs"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/middleware"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/routes"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
)

const uploadsPath = "/uploads"

// SetupRoutes configures all HTTP routes.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log.With("component", "http")))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)

	if c.cfg.Server.Mode != constants.EnvProduction {
		c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// The file driver hands out <public_base_url>/<key> links that point here.
	if strings.EqualFold(c.cfg.Storage.Driver, "file") {
		c.engine.Static(uploadsPath, c.cfg.Storage.BaseDir)
	}

	api := c.engine.Group("/api/v1")

	routes.SetupAuthRoutes(api, &routes.AuthRouteConfig{
		AuthHandler:  c.hdlrs.authHandler,
		LoginLimiter: c.loginLimiter,
	})

	routes.SetupCustomerRoutes(api, &routes.CustomerRouteConfig{
		CustomerHandler:   c.hdlrs.customerHandler,
		AttachmentHandler: c.hdlrs.attachmentHandler,
		SubmitLimiter:     c.submitLimiter,
		UploadLimiter:     c.uploadLimiter,
	})

	routes.SetupAdminRoutes(api, &routes.AdminRouteConfig{
		AdminHandler:         c.hdlrs.adminHandler,
		AgentHandler:         c.hdlrs.agentHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

// GetEngine returns the Gin engine.
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}
