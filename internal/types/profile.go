package types

import (
	"time"

	"github.com/google/uuid"
)

// ProfileResponse is the owner's view of their account and dating profile.
type ProfileResponse struct {
	UserID           uuid.UUID  `json:"user_id"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	SubscriptionTier string     `json:"subscription_tier"`
	DisplayName      string     `json:"display_name"`
	Bio              string     `json:"bio"`
	Gender           string     `json:"gender,omitempty"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	City             string     `json:"city"`
	IsFeatured       bool       `json:"is_featured"`
	FeaturedUntil    *time.Time `json:"featured_until,omitempty"`
	Visibility       string     `json:"profile_visibility"`
	Location         string     `json:"location"`
	SearchRadius     int        `json:"search_radius"`
}

// UpdateProfileRequest represents a request to update a user's profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,min=1,max=50"`
	Bio         *string `json:"bio,omitempty" binding:"omitempty,max=1000"`
	City        *string `json:"city,omitempty" binding:"omitempty,max=100"`
	MinAge      *int    `json:"min_age,omitempty" binding:"omitempty,min=18,max=120"`
	MaxAge      *int    `json:"max_age,omitempty" binding:"omitempty,min=18,max=120"`
}
