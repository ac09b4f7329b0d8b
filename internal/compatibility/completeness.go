package compatibility

import (
	"math"
	"unicode/utf8"

	"github.com/heartline/heartline/backend/internal/models"
)

// Completeness checklist points. The total is 17.
const (
	traitsPoints       = 5
	lifestylePoints    = 5
	dealBreakerPoints  = 3
	interestsPoints    = 2
	aboutMePoints      = 1
	lookingForPoints   = 1
	completenessPoints = traitsPoints + lifestylePoints + dealBreakerPoints + interestsPoints + aboutMePoints + lookingForPoints

	minLifestyleFields   = 4
	minDealBreakerFields = 3
	minInterests         = 3
	minFreeTextLength    = 50
)

// ProfileCompleteness returns how complete a questionnaire is, 0-100.
// Each checklist item is all-or-nothing.
func ProfileCompleteness(p *models.PersonalityProfile) int {
	if p == nil {
		return 0
	}

	earned := 0
	if p.PersonalityTraits.Data().Count() == 5 {
		earned += traitsPoints
	}
	if p.LifestylePrefs.Data().Count() >= minLifestyleFields {
		earned += lifestylePoints
	}
	if p.DealBreakers.Data().Count() >= minDealBreakerFields {
		earned += dealBreakerPoints
	}
	if len(p.Interests) >= minInterests {
		earned += interestsPoints
	}
	if utf8.RuneCountInString(p.AboutMe) >= minFreeTextLength {
		earned += aboutMePoints
	}
	if utf8.RuneCountInString(p.WhatImLookingFor) >= minFreeTextLength {
		earned += lookingForPoints
	}

	return int(math.Round(float64(earned) / completenessPoints * 100))
}
