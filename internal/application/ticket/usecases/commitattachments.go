package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/storage"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
)

type CommitAttachmentsUseCase struct {
	attachmentRepo ticket.AttachmentRepository
	store          ObjectStore
	logger         logger.Interface
}

func NewCommitAttachmentsUseCase(
	attachmentRepo ticket.AttachmentRepository,
	store ObjectStore,
	logger logger.Interface,
) *CommitAttachmentsUseCase {
	return &CommitAttachmentsUseCase{
		attachmentRepo: attachmentRepo,
		store:          store,
		logger:         logger,
	}
}

// Execute records metadata rows for staged files. Either every row is written or none is.
func (uc *CommitAttachmentsUseCase) Execute(ctx context.Context, ticketID uint, files []dto.FileMetaDTO) ([]*dto.AttachmentDTO, error) {
	attachments, err := uc.commit(ctx, ticketID, files)
	if err != nil {
		return nil, err
	}
	return mapper.MapSlice(attachments, dto.ToAttachmentDTO), nil
}

func (uc *CommitAttachmentsUseCase) commit(ctx context.Context, ticketID uint, files []dto.FileMetaDTO) ([]*ticket.Attachment, error) {
	if len(files) == 0 {
		return []*ticket.Attachment{}, nil
	}

	attachments := make([]*ticket.Attachment, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		key := storage.SanitizeKey(f.Path)
		if !isStagingKey(key) {
			return nil, errors.NewValidationError("invalid attachment path", f.Path)
		}
		if _, dup := seen[key]; dup {
			return nil, errors.NewValidationError("attachment listed twice", key)
		}
		seen[key] = struct{}{}

		referenced, err := uc.attachmentRepo.ExistsByPath(ctx, key)
		if err != nil {
			return nil, errors.NewRemoteReadError("failed to check attachment references", err)
		}
		if referenced {
			return nil, errors.NewConflictError("file is attached to another ticket", key)
		}

		staged, err := uc.describe(ctx, key, f.FileName)
		if err != nil {
			return nil, err
		}

		a, err := ticket.NewAttachment(ticketID, staged)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		attachments = append(attachments, a)
	}

	if err := uc.attachmentRepo.CreateBatch(ctx, attachments); err != nil {
		uc.logger.Errorw("failed to commit attachments",
			"ticket_id", ticketID,
			"requested", len(attachments),
			"error", err,
		)
		return nil, errors.NewPartialAttachmentError(0, len(attachments), err)
	}

	uc.logger.Infow("attachments committed", "ticket_id", ticketID, "count", len(attachments))
	return attachments, nil
}

// describe builds the row from the stored object. Only the display name comes from the client.
func (uc *CommitAttachmentsUseCase) describe(ctx context.Context, key, fileName string) (ticket.StagedFile, error) {
	info, err := uc.store.Stat(ctx, key)
	if err != nil {
		if stderrors.Is(err, storage.ErrObjectNotFound) {
			return ticket.StagedFile{}, errors.NewValidationError("staged file not found", key)
		}
		return ticket.StagedFile{}, errors.NewRemoteReadError("failed to check staged file", err)
	}

	mimeType := info.ContentType
	if mimeType == "" {
		mimeType = genericMimeType
	}

	return ticket.StagedFile{
		Path:     key,
		FileURL:  uc.store.PublicURL(key),
		FileName: fileName,
		FileSize: info.Size,
		MimeType: mimeType,
	}, nil
}

func isStagingKey(key string) bool {
	return strings.HasPrefix(key, fmt.Sprintf("%s/", constants.AttachmentKeyPrefix)) &&
		len(key) > len(constants.AttachmentKeyPrefix)+1
}
