package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TicketPriorityNormal = "normal"
	TicketPriorityHigh   = "high"

	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

type SupportTicket struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Category    string         `gorm:"size:30;not null" json:"category"` // account, billing, safety, technical, other
	Subject     string         `gorm:"size:200;not null" json:"subject"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Priority    string         `gorm:"size:20;not null" json:"priority"`
	Status      string         `gorm:"size:20;not null" json:"status"`
	AdminNotes  string         `gorm:"type:text" json:"admin_notes"`
}

func (t *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SupportTicket model
func (SupportTicket) TableName() string {
	return "support_tickets"
}
