// Package dto holds the read models returned by ticket use cases.
package dto

import (
	"time"

	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
)

type TicketDTO struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	StatusDisplay string    `json:"status_display"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TicketSummaryDTO is a list row. CommentCount is computed on read.
type TicketSummaryDTO struct {
	TicketDTO
	CommentCount int64 `json:"comment_count"`
}

type CommentDTO struct {
	ID          uint      `json:"id"`
	TicketID    uint      `json:"ticket_id"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	CreatedAt   time.Time `json:"created_at"`
}

type AttachmentDTO struct {
	ID          uint      `json:"id"`
	TicketID    uint      `json:"ticket_id"`
	Path        string    `json:"path"`
	FileURL     string    `json:"file_url"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	MimeType    string    `json:"mime_type"`
	Disposition string    `json:"disposition"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileMetaDTO describes an uploaded object that is not yet attached to a ticket.
// On submission only Path and FileName are read; the rest is taken from storage.
type FileMetaDTO struct {
	Path     string `json:"path" binding:"required" validate:"required,max=512"`
	FileURL  string `json:"file_url" validate:"max=1024"`
	FileName string `json:"file_name" binding:"required" validate:"required,max=255"`
	FileSize int64  `json:"file_size" binding:"gte=0" validate:"gte=0"`
	MimeType string `json:"mime_type" validate:"max=255"`
}

type StatusChangeDTO struct {
	ID             uint      `json:"id"`
	FromStatus     string    `json:"from_status"`
	ToStatus       string    `json:"to_status"`
	ChangedByName  string    `json:"changed_by_name"`
	ChangedByEmail string    `json:"changed_by_email"`
	Policy         string    `json:"policy"`
	CreatedAt      time.Time `json:"created_at"`
}

type StatusCountsDTO struct {
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Total      int64 `json:"total"`
}

type DashboardDTO struct {
	Counts  StatusCountsDTO     `json:"counts"`
	Filter  *string             `json:"filter"`
	Tickets []*TicketSummaryDTO `json:"tickets"`
}

type CustomerOverviewDTO struct {
	ActiveCount int64               `json:"active_count"`
	Tickets     []*TicketSummaryDTO `json:"tickets"`
}

type TicketDetailDTO struct {
	Ticket        *TicketDTO         `json:"ticket"`
	Comments      []*CommentDTO      `json:"comments"`
	Attachments   []*AttachmentDTO   `json:"attachments"`
	StatusHistory []*StatusChangeDTO `json:"status_history"`
}

type SubmitTicketResultDTO struct {
	Ticket      *TicketDTO       `json:"ticket"`
	Attachments []*AttachmentDTO `json:"attachments"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:            t.ID(),
		Name:          t.Name(),
		Email:         t.Email(),
		Description:   t.Description(),
		Status:        t.Status().String(),
		StatusDisplay: t.Status().DisplayName(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
	}
}

func ToTicketSummaryDTO(s *ticket.TicketSummary) *TicketSummaryDTO {
	return &TicketSummaryDTO{
		TicketDTO:    *ToTicketDTO(s.Ticket),
		CommentCount: s.CommentCount,
	}
}

// ToCommentDTO pairs a comment with its pre-rendered HTML body.
func ToCommentDTO(c *ticket.Comment, contentHTML string) *CommentDTO {
	return &CommentDTO{
		ID:          c.ID(),
		TicketID:    c.TicketID(),
		AuthorName:  c.Author().Name(),
		AuthorEmail: c.Author().Email(),
		Content:     c.Content(),
		ContentHTML: contentHTML,
		CreatedAt:   c.CreatedAt(),
	}
}

func ToAttachmentDTO(a *ticket.Attachment) *AttachmentDTO {
	return &AttachmentDTO{
		ID:          a.ID(),
		TicketID:    a.TicketID(),
		Path:        a.Path(),
		FileURL:     a.FileURL(),
		FileName:    a.FileName(),
		FileSize:    a.FileSize(),
		MimeType:    a.MimeType(),
		Disposition: string(a.Disposition()),
		CreatedAt:   a.CreatedAt(),
	}
}

func ToStatusChangeDTO(sc *ticket.StatusChange) *StatusChangeDTO {
	return &StatusChangeDTO{
		ID:             sc.ID(),
		FromStatus:     sc.FromStatus().String(),
		ToStatus:       sc.ToStatus().String(),
		ChangedByName:  sc.ChangedBy().Name(),
		ChangedByEmail: sc.ChangedBy().Email(),
		Policy:         sc.Policy(),
		CreatedAt:      sc.CreatedAt(),
	}
}

func ToStatusCountsDTO(c ticket.StatusCounts) StatusCountsDTO {
	return StatusCountsDTO{
		New:        c.New,
		InProgress: c.InProgress,
		Resolved:   c.Resolved,
		Total:      c.Total(),
	}
}

// FilterString renders an optional status filter for the dashboard echo.
func FilterString(status *vo.TicketStatus) *string {
	if status == nil {
		return nil
	}
	s := status.String()
	return &s
}
