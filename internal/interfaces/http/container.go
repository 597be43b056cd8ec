package http

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/helpdesk/internal/application/notification"
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/infrastructure/config"
	"github.com/orris-inc/helpdesk/internal/infrastructure/permission"
	"github.com/orris-inc/helpdesk/internal/infrastructure/pubsub"
	"github.com/orris-inc/helpdesk/internal/infrastructure/scheduler"
	"github.com/orris-inc/helpdesk/internal/infrastructure/storage"
	"github.com/orris-inc/helpdesk/internal/interfaces/http/middleware"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/services/markdown"
)

// Container holds the infrastructure, repositories, use cases, handlers and
// background services of the helpdesk server, and shuts them down in order.
type Container struct {
	// Core infrastructure
	engine  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	log     logger.Interface
	redis   *redis.Client
	version string

	store    storage.Store
	bus      pubsub.TicketEventBus
	renderer markdown.Renderer
	jwtSvc   *auth.JWTService
	enforcer *permission.Enforcer

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	submitLimiter        *middleware.RateLimiter
	uploadLimiter        *middleware.RateLimiter
	loginLimiter         *middleware.RateLimiter

	// Background services
	notifier         *notification.TicketNotifier
	schedulerManager *scheduler.SchedulerManager
	subscriberCancel context.CancelFunc
	subscriberDone   <-chan struct{}
	shutdownOnce     sync.Once
}

// NewContainer wires every component. Nothing is started until StartBackground.
func NewContainer(db *gorm.DB, cfg *config.Config, version string, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		db:      db,
		cfg:     cfg,
		log:     log,
		version: version,
	}

	// Section 1: Infrastructure - Redis, Storage, Event bus, Auth
	if err := c.initInfrastructure(); err != nil {
		c.closeInfrastructure()
		return nil, err
	}

	// Section 2: Repositories and use cases
	c.initRepositories()
	if err := c.initUseCases(); err != nil {
		c.closeInfrastructure()
		return nil, err
	}

	// Section 3: Handlers and middlewares
	c.initHandlers()
	c.initMiddlewares()

	// Section 4: Notifications and scheduled jobs
	if err := c.initBackground(); err != nil {
		c.closeInfrastructure()
		return nil, err
	}

	return c, nil
}

func (c *Container) needsRedis() bool {
	return c.cfg.RateLimit.Enabled || strings.EqualFold(c.cfg.Events.Driver, pubsub.DriverRedis)
}

func (c *Container) initInfrastructure() error {
	if c.needsRedis() {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     c.cfg.Redis.GetAddr(),
			Password: c.cfg.Redis.Password,
			DB:       c.cfg.Redis.DB,
		})
	}

	store, err := storage.Open(context.Background(), c.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open attachment storage: %w", err)
	}
	c.store = store

	bus, err := pubsub.NewTicketEventBus(c.cfg.Events, c.redis, c.log.With("component", "pubsub"))
	if err != nil {
		return fmt.Errorf("failed to create ticket event bus: %w", err)
	}
	c.bus = bus

	c.renderer = markdown.NewRenderer()
	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes)

	enforcer, err := permission.NewEnforcer(c.db, c.log.With("component", "permission"))
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := enforcer.InitTicketPermissions(); err != nil {
		return fmt.Errorf("failed to seed ticket permissions: %w", err)
	}
	c.enforcer = enforcer

	c.log.Infow("infrastructure initialized",
		"storage_driver", c.cfg.Storage.Driver,
		"events_driver", c.cfg.Events.Driver,
		"redis", c.redis != nil)
	return nil
}

func (c *Container) closeInfrastructure() {
	if c.bus != nil {
		if err := c.bus.Close(); err != nil {
			c.log.Warnw("failed to close ticket event bus", "error", err)
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.log.Warnw("failed to close attachment storage", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
