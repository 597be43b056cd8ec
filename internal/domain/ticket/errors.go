package ticket

import "errors"

var (
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrAttachmentNotFound   = errors.New("attachment not found")
	ErrInvalidStatus        = errors.New("invalid ticket status")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)
