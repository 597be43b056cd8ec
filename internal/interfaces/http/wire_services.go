package http

import (
	"context"
	"fmt"

	"github.com/orris-inc/helpdesk/internal/application/notification"
	"github.com/orris-inc/helpdesk/internal/infrastructure/email"
	"github.com/orris-inc/helpdesk/internal/infrastructure/scheduler"
	"github.com/orris-inc/helpdesk/internal/shared/goroutine"
)

func (c *Container) initBackground() error {
	sender := email.NewSender(c.cfg.Email, c.log.With("component", "email"))
	c.notifier = notification.NewTicketNotifier(
		sender, c.renderer, c.cfg.Support.InboxAddress, c.log.With("component", "notifier"),
	)

	mgr, err := scheduler.NewSchedulerManager(c.log.With("component", "scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := mgr.RegisterOutboxRelayJob(c.ucs.relayOutbox, c.cfg.Events.RelayInterval); err != nil {
		return fmt.Errorf("failed to register outbox relay job: %w", err)
	}
	if err := mgr.RegisterOutboxCleanupJob(c.ucs.cleanupOutbox); err != nil {
		return fmt.Errorf("failed to register outbox cleanup job: %w", err)
	}
	c.schedulerManager = mgr
	return nil
}

// StartBackground starts the notification subscriber and the outbox jobs.
func (c *Container) StartBackground(ctx context.Context) {
	subCtx, cancel := context.WithCancel(ctx)
	c.subscriberCancel = cancel
	c.subscriberDone = goroutine.Run(subCtx, c.log, "ticket-event-subscriber", func(ctx context.Context) error {
		return c.bus.Subscribe(ctx, c.notifier.Handle)
	})

	c.schedulerManager.Start(ctx)
	c.log.Infow("background services started")
}

// Shutdown stops background work first, then releases infrastructure.
func (c *Container) Shutdown() {
	c.shutdownOnce.Do(func() {
		if c.schedulerManager != nil {
			if err := c.schedulerManager.Stop(); err != nil {
				c.log.Warnw("failed to stop scheduler", "error", err)
			}
		}
		if c.subscriberCancel != nil {
			c.subscriberCancel()
			<-c.subscriberDone
		}

		c.closeInfrastructure()
		c.log.Infow("container shut down")
	})
}
