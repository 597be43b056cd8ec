package ticket

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/helpdesk/internal/application/ticket/usecases"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/shared/errors"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

// multipartOverhead is the allowance for form boundaries and part headers on top of the file.
const multipartOverhead = 1 << 20

// AttachmentHandler stages uploads and serves stored attachments.
type AttachmentHandler struct {
	stageFileUC      usecases.StageFileExecutor
	removeStagedUC   usecases.RemoveStagedFileExecutor
	openAttachmentUC usecases.OpenAttachmentExecutor
	maxUploadBytes   int64
	logger           logger.Interface
}

func NewAttachmentHandler(
	stageFileUC usecases.StageFileExecutor,
	removeStagedUC usecases.RemoveStagedFileExecutor,
	openAttachmentUC usecases.OpenAttachmentExecutor,
	maxUploadBytes int64,
	log logger.Interface,
) *AttachmentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = usecases.DefaultMaxUploadBytes
	}
	return &AttachmentHandler{
		stageFileUC:      stageFileUC,
		removeStagedUC:   removeStagedUC,
		openAttachmentUC: openAttachmentUC,
		maxUploadBytes:   maxUploadBytes,
		logger:           log,
	}
}

// StageFile godoc
// @Summary Stage an attachment
// @Description Uploads a file to object storage; pass the returned metadata when submitting the ticket
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} utils.APIResponse{data=dto.FileMetaDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/v1/attachments [post]
func (h *AttachmentHandler) StageFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		h.logger.Warnw("missing or oversized upload", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("file is required and must not exceed the upload limit"))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("failed to read uploaded file"))
		return
	}
	defer file.Close()

	result, err := h.stageFileUC.Execute(c.Request.Context(), usecases.StageFileCommand{
		FileName: header.Filename,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
		Content:  file,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "File staged successfully")
}

// RemoveStagedFile godoc
// @Summary Remove a staged upload
// @Description Deletes an upload that was never committed to a ticket
// @Tags attachments
// @Param path query string true "Storage key returned by stage"
// @Success 204
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/v1/attachments/staged [delete]
func (h *AttachmentHandler) RemoveStagedFile(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("path is required"))
		return
	}

	if err := h.removeStagedUC.Execute(c.Request.Context(), path); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// OpenAttachment godoc
// @Summary Open an attachment
// @Description Streams the file with a Content-Disposition chosen by MIME type, or redirects to a signed URL when redirect=true
// @Tags attachments
// @Param id path int true "Attachment ID"
// @Param redirect query bool false "Prefer a signed URL redirect"
// @Success 200 {file} binary
// @Success 302
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/attachments/{id}/open [get]
func (h *AttachmentHandler) OpenAttachment(c *gin.Context) {
	attachmentID, err := utils.ParseUintParam(c, "id", "attachment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	plan, err := h.openAttachmentUC.Execute(c.Request.Context(), usecases.OpenAttachmentQuery{
		AttachmentID:   attachmentID,
		PreferRedirect: c.Query("redirect") == "true" || c.Query("redirect") == "1",
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if plan.RedirectURL != "" {
		c.Redirect(http.StatusFound, plan.RedirectURL)
		return
	}
	defer plan.Body.Close()

	c.DataFromReader(http.StatusOK, plan.Size, plan.ContentType, plan.Body, map[string]string{
		"Content-Disposition": contentDisposition(plan.Disposition, plan.Attachment.FileName),
		"Cache-Control":       "private, max-age=300",
	})
}

func contentDisposition(d ticket.Disposition, fileName string) string {
	kind := "inline"
	if d == ticket.DispositionDownload {
		kind = "attachment"
	}
	if v := mime.FormatMediaType(kind, map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return kind
}
