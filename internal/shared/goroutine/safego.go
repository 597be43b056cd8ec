// Package goroutine runs background workers with panic recovery.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

// Run launches a long-lived worker bound to ctx and returns a channel closed when it exits.
// The worker's error is logged unless it is the context's own cancellation.
func Run(ctx context.Context, log logger.Interface, name string, fn func(ctx context.Context) error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer recoverAndLog(log, name)
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("background worker stopped with error", "goroutine", name, "error", err)
			return
		}
		log.Infow("background worker stopped", "goroutine", name)
	}()
	return done
}

func recoverAndLog(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("goroutine panicked",
			"goroutine", name,
			"panic", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)
	}
}
