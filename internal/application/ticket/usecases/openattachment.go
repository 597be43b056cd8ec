package usecases

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/storage"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type OpenAttachmentQuery struct {
	AttachmentID uint
	// PreferRedirect asks for a signed URL when the storage driver can issue one.
	PreferRedirect bool
}

// OpenPlan tells the transport how to deliver an attachment. Exactly one of
// RedirectURL and Body is set; callers must close Body.
type OpenPlan struct {
	Attachment  *dto.AttachmentDTO
	Disposition ticket.Disposition
	RedirectURL string
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

type OpenAttachmentUseCase struct {
	attachmentRepo ticket.AttachmentRepository
	store          ObjectStore
	signedURLTTL   time.Duration
	logger         logger.Interface
}

func NewOpenAttachmentUseCase(
	attachmentRepo ticket.AttachmentRepository,
	store ObjectStore,
	signedURLTTL time.Duration,
	logger logger.Interface,
) *OpenAttachmentUseCase {
	return &OpenAttachmentUseCase{
		attachmentRepo: attachmentRepo,
		store:          store,
		signedURLTTL:   signedURLTTL,
		logger:         logger,
	}
}

// Execute resolves how an attachment is opened. PDFs are downloaded, everything
// else is shown inline.
func (uc *OpenAttachmentUseCase) Execute(ctx context.Context, query OpenAttachmentQuery) (*OpenPlan, error) {
	if query.AttachmentID == 0 {
		return nil, errors.NewValidationError("attachment ID is required")
	}

	a, err := uc.attachmentRepo.GetByID(ctx, query.AttachmentID)
	if err != nil {
		return nil, readError(err, "failed to load attachment")
	}

	plan := &OpenPlan{
		Attachment:  dto.ToAttachmentDTO(a),
		Disposition: a.Disposition(),
		ContentType: a.MimeType(),
		Size:        a.FileSize(),
	}

	if query.PreferRedirect {
		url, err := uc.store.SignedURL(ctx, a.Path(), uc.signedURLTTL)
		switch {
		case err == nil:
			plan.RedirectURL = url
			return plan, nil
		case stderrors.Is(err, storage.ErrSignedURLUnsupported):
			// fall through to streaming
		default:
			uc.logger.Errorw("failed to sign attachment url", "attachment_id", a.ID(), "error", err)
			return nil, errors.NewRemoteReadError("failed to sign attachment url", err)
		}
	}

	obj, err := uc.store.Open(ctx, a.Path())
	if err != nil {
		if stderrors.Is(err, storage.ErrObjectNotFound) {
			uc.logger.Warnw("attachment object missing from storage", "attachment_id", a.ID(), "path", a.Path())
			return nil, errors.NewNotFoundError("attachment file not found").WithCause(err)
		}
		uc.logger.Errorw("failed to open attachment", "attachment_id", a.ID(), "error", err)
		return nil, errors.NewRemoteReadError("failed to open attachment", err)
	}

	plan.Body = obj.Body
	if obj.Size > 0 {
		plan.Size = obj.Size
	}
	if plan.ContentType == "" {
		plan.ContentType = obj.ContentType
	}
	return plan, nil
}
