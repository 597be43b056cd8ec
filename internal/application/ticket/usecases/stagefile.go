package usecases

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/shared/constants"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const (
	DefaultMaxUploadBytes int64 = 10 << 20
	sniffLength                 = 512
	genericMimeType             = "application/octet-stream"
)

var extensionPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

type StageFileCommand struct {
	FileName string
	// Size is the size the client declared, or -1 when unknown.
	Size     int64
	MimeType string
	Content  io.Reader
}

// StageFileUseCase uploads bytes to object storage ahead of ticket submission.
type StageFileUseCase struct {
	store          ObjectStore
	maxUploadBytes int64
	logger         logger.Interface
}

func NewStageFileUseCase(
	store ObjectStore,
	maxUploadBytes int64,
	logger logger.Interface,
) *StageFileUseCase {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &StageFileUseCase{
		store:          store,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Execute writes the file under a fresh attachments/<uuid><ext> key. The returned
// size is the number of bytes stored, not the size the client declared.
func (uc *StageFileUseCase) Execute(ctx context.Context, cmd StageFileCommand) (*dto.FileMetaDTO, error) {
	fileName := strings.TrimSpace(filepath.Base(cmd.FileName))
	if fileName == "" || fileName == "." || fileName == string(filepath.Separator) {
		return nil, errors.NewValidationError("file name is required")
	}
	if cmd.Content == nil {
		return nil, errors.NewValidationError("file content is required")
	}
	if cmd.Size > uc.maxUploadBytes {
		return nil, errors.NewValidationError("file exceeds maximum upload size", fileName)
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(cmd.Content, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, errors.NewUploadError("failed to read upload", err)
	}
	head = head[:n]

	mimeType := detectMimeType(cmd.MimeType, head)
	key := newStagingKey(fileName)
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), cmd.Content), uc.maxUploadBytes+1)

	uc.logger.Infow("staging file", "path", key, "mime_type", mimeType)

	written, err := uc.store.Put(ctx, key, body, mimeType)
	if err != nil {
		uc.logger.Errorw("failed to upload file", "path", key, "error", err)
		return nil, errors.NewUploadError("failed to upload file", err)
	}
	if written > uc.maxUploadBytes {
		if delErr := uc.store.Delete(ctx, key); delErr != nil {
			uc.logger.Warnw("failed to delete oversized upload", "path", key, "error", delErr)
		}
		return nil, errors.NewValidationError("file exceeds maximum upload size", fileName)
	}

	uc.logger.Infow("file staged successfully", "path", key, "size", written)

	return &dto.FileMetaDTO{
		Path:     key,
		FileURL:  uc.store.PublicURL(key),
		FileName: fileName,
		FileSize: written,
		MimeType: mimeType,
	}, nil
}

// detectMimeType trusts a specific client type and sniffs the content otherwise.
func detectMimeType(declared string, head []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && !strings.HasPrefix(strings.ToLower(declared), genericMimeType) {
		return declared
	}
	if len(head) == 0 {
		return genericMimeType
	}
	return mimetype.Detect(head).String()
}

func newStagingKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !extensionPattern.MatchString(ext) {
		ext = ""
	}
	return constants.AttachmentKeyPrefix + "/" + uuid.NewString() + ext
}
