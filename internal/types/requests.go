package types

import (
	"time"

	"github.com/heartline/heartline/backend/internal/models"
)

type RegisterRequest struct {
	Email       string     `json:"email" binding:"required,email"`
	Password    string     `json:"password" binding:"required,min=8,max=72"`
	DisplayName string     `json:"display_name" binding:"required,max=50"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Gender      string     `json:"gender,omitempty" binding:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// QuestionnaireRequest is the personality questionnaire submission. The
// nested structs carry their own validation tags.
type QuestionnaireRequest struct {
	PersonalityTraits    models.PersonalityTraits    `json:"personality_traits"`
	LifestylePreferences models.LifestylePreferences `json:"lifestyle_preferences"`
	DealBreakers         models.DealBreakers         `json:"deal_breakers"`
	Interests            []string                    `json:"interests" validate:"max=50,dive,max=50"`
	AboutMe              string                      `json:"about_me" validate:"max=2000"`
	WhatImLookingFor     string                      `json:"what_im_looking_for" validate:"max=2000"`
}

type ActivateFeatureRequest struct {
	Settings     *models.FeatureSettings `json:"settings,omitempty"`
	DurationDays *int                    `json:"duration_days,omitempty"`
}

type CreateTicketRequest struct {
	Category    string `json:"category" binding:"required,oneof=account billing safety technical other"`
	Subject     string `json:"subject" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
}

type UpdateTicketStatusRequest struct {
	Status     string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
	AdminNotes string `json:"admin_notes"`
}
