package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the public dating profile shown to other users.
type Profile struct {
	ID            uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	DisplayName   string         `gorm:"size:50;not null" json:"display_name"`
	Bio           string         `gorm:"type:text" json:"bio"`
	Gender        string         `gorm:"size:20" json:"gender"`
	BirthDate     *time.Time     `json:"birth_date,omitempty"`
	City          string         `gorm:"size:100" json:"city"`
	IsFeatured    bool           `gorm:"not null;default:false" json:"is_featured"`
	FeaturedUntil *time.Time     `json:"featured_until,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FeaturedAt reports whether the featured window is open at now.
func (p *Profile) FeaturedAt(now time.Time) bool {
	return p.IsFeatured && p.FeaturedUntil != nil && p.FeaturedUntil.After(now)
}
