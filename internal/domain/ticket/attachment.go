package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/orris-inc/helpdesk/internal/shared/biztime"
)

// Disposition tells a client how to present an attachment.
type Disposition string

const (
	// DispositionDownload hands the file to the platform share/download flow.
	DispositionDownload Disposition = "download"
	// DispositionInline shows the file in place, e.g. an image viewer.
	DispositionInline Disposition = "inline"
)

const mimePDF = "application/pdf"

// DispositionFor dispatches on MIME type: PDFs are downloaded, everything else is shown inline.
func DispositionFor(mimeType string) Disposition {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == mimePDF {
		return DispositionDownload
	}
	return DispositionInline
}

// StagedFile describes an object already uploaded to storage but not yet linked to a ticket.
type StagedFile struct {
	Path     string
	FileURL  string
	FileName string
	FileSize int64
	MimeType string
}

func (f StagedFile) Validate() error {
	if strings.TrimSpace(f.Path) == "" {
		return fmt.Errorf("attachment path is required")
	}
	if strings.TrimSpace(f.FileName) == "" {
		return fmt.Errorf("attachment file name is required")
	}
	if f.FileSize < 0 {
		return fmt.Errorf("attachment file size cannot be negative")
	}
	return nil
}

// Attachment is the metadata row for a stored file linked to a ticket. It is never mutated.
type Attachment struct {
	id        uint
	ticketID  uint
	path      string
	fileURL   string
	fileName  string
	fileSize  int64
	mimeType  string
	createdAt time.Time
	updatedAt time.Time
}

func NewAttachment(ticketID uint, file StagedFile) (*Attachment, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Attachment{
		ticketID:  ticketID,
		path:      file.Path,
		fileURL:   file.FileURL,
		fileName:  file.FileName,
		fileSize:  file.FileSize,
		mimeType:  file.MimeType,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructAttachment(
	id uint,
	ticketID uint,
	file StagedFile,
	createdAt, updatedAt time.Time,
) (*Attachment, error) {
	if id == 0 {
		return nil, fmt.Errorf("attachment ID cannot be zero")
	}

	return &Attachment{
		id:        id,
		ticketID:  ticketID,
		path:      file.Path,
		fileURL:   file.FileURL,
		fileName:  file.FileName,
		fileSize:  file.FileSize,
		mimeType:  file.MimeType,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (a *Attachment) ID() uint             { return a.id }
func (a *Attachment) TicketID() uint       { return a.ticketID }
func (a *Attachment) Path() string         { return a.path }
func (a *Attachment) FileURL() string      { return a.fileURL }
func (a *Attachment) FileName() string     { return a.fileName }
func (a *Attachment) FileSize() int64      { return a.fileSize }
func (a *Attachment) MimeType() string     { return a.mimeType }
func (a *Attachment) CreatedAt() time.Time { return a.createdAt }
func (a *Attachment) UpdatedAt() time.Time { return a.updatedAt }

func (a *Attachment) Disposition() Disposition {
	return DispositionFor(a.mimeType)
}

func (a *Attachment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("attachment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("attachment ID cannot be zero")
	}
	a.id = id
	return nil
}
