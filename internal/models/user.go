package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	TierFree    = "free"
	TierPremium = "premium"

	VisibilityPublic  = "public"
	VisibilityPrivate = "private"

	// DefaultSearchRadius is the platform default search radius in km.
	DefaultSearchRadius = 50
)

type User struct {
	ID               uuid.UUID                           `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt        time.Time                           `json:"created_at"`
	UpdatedAt        time.Time                           `json:"updated_at"`
	DeletedAt        gorm.DeletedAt                      `gorm:"index" json:"-"`
	Email            string                              `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string                              `gorm:"not null" json:"-"`
	Role             string                              `gorm:"size:20;not null;default:'user'" json:"role"`
	SubscriptionTier string                              `gorm:"size:20;not null;default:'free'" json:"subscription_tier"`
	Settings         datatypes.JSONType[UserSettings]    `json:"settings"`
	Preferences      datatypes.JSONType[UserPreferences] `json:"preferences"`
	LastSeenAt       *time.Time                          `json:"last_seen_at,omitempty"`
}

// UserSettings holds privacy and feature flags stored as JSON on the user row.
type UserSettings struct {
	ProfileVisibility string `json:"profile_visibility"`
	ShowOnlineStatus  bool   `json:"show_online_status"`
	ShowLastSeen      bool   `json:"show_last_seen"`
	PrioritySupport   bool   `json:"priority_support"`
	AdvancedAnalytics bool   `json:"advanced_analytics"`
}

// UserPreferences holds search preferences stored as JSON on the user row.
type UserPreferences struct {
	Location     string `json:"location"`
	SearchRadius int    `json:"search_radius"`
	MinAge       int    `json:"min_age,omitempty"`
	MaxAge       int    `json:"max_age,omitempty"`
}

// DefaultUserSettings returns the settings a new account starts with.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		ProfileVisibility: VisibilityPublic,
		ShowOnlineStatus:  true,
		ShowLastSeen:      true,
	}
}

// DefaultUserPreferences returns the preferences a new account starts with.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{SearchRadius: DefaultSearchRadius}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Searchable reports whether the user may appear in other users' match results.
func (u *User) Searchable() bool {
	return u.Settings.Data().ProfileVisibility != VisibilityPrivate
}
