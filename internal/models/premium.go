package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeatureType string

const (
	FeatureIncognito         FeatureType = "incognito"
	FeatureProfileBoost      FeatureType = "profile_boost"
	FeatureTravelMode        FeatureType = "travel_mode"
	FeaturePrioritySupport   FeatureType = "priority_support"
	FeatureAdvancedAnalytics FeatureType = "advanced_analytics"
)

// FeatureSettings is the feature-specific payload of a grant.
type FeatureSettings struct {
	Location string `json:"location,omitempty" validate:"omitempty,max=120"`
	Radius   int    `json:"radius,omitempty" validate:"omitempty,min=1,max=500"`
}

// PremiumFeature is a time-bounded grant of a premium feature. At most one
// grant per (user, feature type) has is_active set; the partial unique index
// enforces it at the storage layer.
type PremiumFeature struct {
	ID            uuid.UUID                           `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID                           `gorm:"type:varchar(36);not null;uniqueIndex:idx_premium_features_active,where:is_active" json:"user_id"`
	FeatureType   FeatureType                         `gorm:"size:32;not null;uniqueIndex:idx_premium_features_active" json:"feature_type"`
	IsActive      bool                                `gorm:"not null" json:"is_active"`
	StartDate     time.Time                           `gorm:"not null" json:"start_date"`
	EndDate       time.Time                           `gorm:"not null;index" json:"end_date"`
	Settings      datatypes.JSONType[FeatureSettings] `json:"settings"`
	Cost          float64                             `gorm:"type:decimal(10,2);not null" json:"cost"`
	DeactivatedAt *time.Time                          `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time                           `json:"created_at"`
	UpdatedAt     time.Time                           `json:"updated_at"`
}

func (g *PremiumFeature) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (PremiumFeature) TableName() string {
	return "premium_features"
}

// EffectiveActive is the lazy-expiry predicate: a grant counts as active only
// while its flag is set and its end date is still ahead of now.
func (g *PremiumFeature) EffectiveActive(now time.Time) bool {
	return g.IsActive && g.EndDate.After(now)
}
