package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deal-breaker sensitivity values.
const (
	SensitivitySame         = "same"
	SensitivityNotImportant = "not_important"
)

// PersonalityTraits are the five Big Five scores, each in [0,100].
// Pointers distinguish an absent trait from a score of zero.
type PersonalityTraits struct {
	Openness          *int `json:"openness" validate:"required,min=0,max=100"`
	Conscientiousness *int `json:"conscientiousness" validate:"required,min=0,max=100"`
	Extraversion      *int `json:"extraversion" validate:"required,min=0,max=100"`
	Agreeableness     *int `json:"agreeableness" validate:"required,min=0,max=100"`
	Neuroticism       *int `json:"neuroticism" validate:"required,min=0,max=100"`
}

// Count returns how many traits are present.
func (t PersonalityTraits) Count() int {
	n := 0
	for _, v := range []*int{t.Openness, t.Conscientiousness, t.Extraversion, t.Agreeableness, t.Neuroticism} {
		if v != nil {
			n++
		}
	}
	return n
}

type LifestylePreferences struct {
	RelationshipType string `json:"relationship_type,omitempty" validate:"omitempty,oneof=casual serious marriage friendship"`
	Frequency        string `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly monthly occasional"`
	Budget           string `json:"budget,omitempty" validate:"omitempty,oneof=low medium high luxury"`
	Travel           string `json:"travel,omitempty" validate:"omitempty,oneof=local domestic international frequent_traveler"`
	SocialLife       string `json:"social_life,omitempty" validate:"omitempty,max=50"`
	WorkLife         string `json:"work_life,omitempty" validate:"omitempty,max=50"`
	Religion         string `json:"religion,omitempty" validate:"omitempty,max=50"`
	Politics         string `json:"politics,omitempty" validate:"omitempty,max=50"`
}

// Count returns how many lifestyle fields are set.
func (l LifestylePreferences) Count() int {
	n := 0
	for _, v := range []string{l.RelationshipType, l.Frequency, l.Budget, l.Travel, l.SocialLife, l.WorkLife, l.Religion, l.Politics} {
		if v != "" {
			n++
		}
	}
	return n
}

type DealBreakers struct {
	Smoking  *bool  `json:"smoking,omitempty"`
	Drinking *bool  `json:"drinking,omitempty"`
	Drugs    *bool  `json:"drugs,omitempty"`
	Religion string `json:"religion,omitempty" validate:"omitempty,oneof=same not_important"`
	Politics string `json:"politics,omitempty" validate:"omitempty,oneof=same not_important"`
	Children string `json:"children,omitempty" validate:"omitempty,oneof=want dont_want has_children not_important"`
	Marriage string `json:"marriage,omitempty" validate:"omitempty,oneof=want dont_want not_important"`
}

// Count returns how many deal-breaker fields are set.
func (d DealBreakers) Count() int {
	n := 0
	for _, v := range []*bool{d.Smoking, d.Drinking, d.Drugs} {
		if v != nil {
			n++
		}
	}
	for _, v := range []string{d.Religion, d.Politics, d.Children, d.Marriage} {
		if v != "" {
			n++
		}
	}
	return n
}

// PersonalityProfile is the questionnaire result, one per user.
type PersonalityProfile struct {
	ID                  uuid.UUID                                `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID              uuid.UUID                                `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	PersonalityTraits   datatypes.JSONType[PersonalityTraits]    `json:"personality_traits"`
	LifestylePrefs      datatypes.JSONType[LifestylePreferences] `gorm:"column:lifestyle_preferences" json:"lifestyle_preferences"`
	DealBreakers        datatypes.JSONType[DealBreakers]         `json:"deal_breakers"`
	Interests           datatypes.JSONSlice[string]              `json:"interests"`
	AboutMe             string                                   `gorm:"type:text" json:"about_me"`
	WhatImLookingFor    string                                   `gorm:"type:text" json:"what_im_looking_for"`
	ProfileCompleteness int                                      `gorm:"not null;default:0" json:"profile_completeness"`
	CreatedAt           time.Time                                `json:"created_at"`
	UpdatedAt           time.Time                                `json:"updated_at"`
}

func (p *PersonalityProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (PersonalityProfile) TableName() string {
	return "personality_profiles"
}
