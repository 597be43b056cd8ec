package usecases

import (
	"context"
	stderrors "errors"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/storage"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

type RemoveStagedFileUseCase struct {
	attachmentRepo ticket.AttachmentRepository
	store          ObjectStore
	logger         logger.Interface
}

func NewRemoveStagedFileUseCase(
	attachmentRepo ticket.AttachmentRepository,
	store ObjectStore,
	logger logger.Interface,
) *RemoveStagedFileUseCase {
	return &RemoveStagedFileUseCase{
		attachmentRepo: attachmentRepo,
		store:          store,
		logger:         logger,
	}
}

// Execute deletes a staged object. Objects referenced by a committed attachment are kept.
func (uc *RemoveStagedFileUseCase) Execute(ctx context.Context, path string) error {
	key := storage.SanitizeKey(path)
	if !isStagingKey(key) {
		return errors.NewValidationError("invalid staged file path", path)
	}

	referenced, err := uc.attachmentRepo.ExistsByPath(ctx, key)
	if err != nil {
		return errors.NewRemoteReadError("failed to check attachment references", err)
	}
	if referenced {
		return errors.NewConflictError("file is attached to a ticket", key)
	}

	if err := uc.store.Delete(ctx, key); err != nil {
		if stderrors.Is(err, storage.ErrObjectNotFound) {
			return errors.NewNotFoundError("staged file not found", key)
		}
		uc.logger.Errorw("failed to delete staged file", "path", key, "error", err)
		return errors.NewUploadError("failed to delete staged file", err)
	}

	uc.logger.Infow("staged file removed", "path", key)
	return nil
}
