package usecases

import (
	"context"
	stderrors "errors"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
)

// readError maps a repository read failure to NotFound or RemoteReadError.
// Errors that are already typed pass through.
func readError(err error, message string) error {
	if errors.IsAppError(err) {
		return err
	}
	switch {
	case stderrors.Is(err, ticket.ErrTicketNotFound):
		return errors.NewNotFoundError("ticket not found").WithCause(err)
	case stderrors.Is(err, ticket.ErrAttachmentNotFound):
		return errors.NewNotFoundError("attachment not found").WithCause(err)
	default:
		return errors.NewRemoteReadError(message, err)
	}
}

func writeError(err error, message string) error {
	if errors.IsAppError(err) {
		return err
	}
	if stderrors.Is(err, ticket.ErrTicketNotFound) {
		return errors.NewNotFoundError("ticket not found").WithCause(err)
	}
	return errors.NewRemoteWriteError(message, err)
}

func appendEvent(ctx context.Context, outbox ticket.OutboxRepository, event ticket.TicketEvent) error {
	msg, err := ticket.NewOutboxMessage(event)
	if err != nil {
		return errors.NewInternalError("failed to encode ticket event").WithCause(err)
	}
	if err := outbox.Append(ctx, msg); err != nil {
		return errors.NewRemoteWriteError("failed to record ticket event", err)
	}
	return nil
}
