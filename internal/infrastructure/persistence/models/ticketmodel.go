package models

import (
	"time"

	"gorm.io/datatypes"
)

type TicketModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Email       string    `gorm:"size:255;not null;index"`
	Description string    `gorm:"type:text;not null"`
	Status      string    `gorm:"size:20;not null;default:NEW;index:idx_tickets_status_created,priority:1"`
	CreatedAt   time.Time `gorm:"not null;index:idx_tickets_status_created,priority:2"`
	UpdatedAt   time.Time `gorm:"not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}

// TicketWithCommentCount is the scan target for ticket list queries.
type TicketWithCommentCount struct {
	TicketModel
	CommentCount int64
}

type CommentModel struct {
	ID          uint      `gorm:"primaryKey"`
	TicketID    uint      `gorm:"not null;index"`
	AuthorName  string    `gorm:"size:100;not null"`
	AuthorEmail string    `gorm:"size:255;not null"`
	Content     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (CommentModel) TableName() string {
	return "ticket_comments"
}

type AttachmentModel struct {
	ID        uint      `gorm:"primaryKey"`
	TicketID  uint      `gorm:"not null;index"`
	Path      string    `gorm:"size:512;not null;uniqueIndex"`
	FileURL   string    `gorm:"size:1024;not null"`
	FileName  string    `gorm:"size:255;not null"`
	FileSize  int64     `gorm:"not null"`
	MimeType  string    `gorm:"size:127"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (AttachmentModel) TableName() string {
	return "ticket_attachments"
}

type StatusChangeModel struct {
	ID             uint      `gorm:"primaryKey"`
	TicketID       uint      `gorm:"not null;index"`
	FromStatus     string    `gorm:"size:20;not null"`
	ToStatus       string    `gorm:"size:20;not null"`
	ChangedByName  string    `gorm:"size:100;not null"`
	ChangedByEmail string    `gorm:"size:255;not null"`
	Policy         string    `gorm:"size:32;not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (StatusChangeModel) TableName() string {
	return "ticket_status_changes"
}

type OutboxMessageModel struct {
	ID          uint           `gorm:"primaryKey"`
	EventType   string         `gorm:"size:64;not null"`
	AggregateID uint           `gorm:"not null;index"`
	Payload     datatypes.JSON `gorm:"not null"`
	Attempts    int            `gorm:"not null;default:0"`
	LastError   string         `gorm:"size:1024"`
	DeliveredAt *time.Time     `gorm:"index"`
	CreatedAt   time.Time      `gorm:"not null;index"`
}

func (OutboxMessageModel) TableName() string {
	return "ticket_outbox"
}
