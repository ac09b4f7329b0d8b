package testhelpers

import (
	"testing"

	"github.com/heartline/heartline/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const TestPassword = "correct-horse-battery"

// CreateUser inserts a user with default settings and a dating profile.
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:            email,
		PasswordHash:     string(hash),
		Role:             models.RoleUser,
		SubscriptionTier: models.TierFree,
		Settings:         datatypes.NewJSONType(models.DefaultUserSettings()),
		Preferences:      datatypes.NewJSONType(models.DefaultUserPreferences()),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	profile := &models.Profile{UserID: user.ID, DisplayName: email}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return user
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}

// Traits builds a complete trait set.
func Traits(openness, conscientiousness, extraversion, agreeableness, neuroticism int) models.PersonalityTraits {
	return models.PersonalityTraits{
		Openness:          IntPtr(openness),
		Conscientiousness: IntPtr(conscientiousness),
		Extraversion:      IntPtr(extraversion),
		Agreeableness:     IntPtr(agreeableness),
		Neuroticism:       IntPtr(neuroticism),
	}
}

// CreatePersonality stores a questionnaire for user with the given traits and
// neutral lifestyle and deal-breaker answers.
func CreatePersonality(t *testing.T, db *gorm.DB, user *models.User, traits models.PersonalityTraits) *models.PersonalityProfile {
	t.Helper()

	profile := &models.PersonalityProfile{
		UserID:            user.ID,
		PersonalityTraits: datatypes.NewJSONType(traits),
		LifestylePrefs: datatypes.NewJSONType(models.LifestylePreferences{
			RelationshipType: "serious",
			Frequency:        "weekly",
			Budget:           "medium",
			Travel:           "domestic",
		}),
		DealBreakers: datatypes.NewJSONType(models.DealBreakers{
			Religion: models.SensitivityNotImportant,
			Politics: models.SensitivityNotImportant,
			Children: models.SensitivityNotImportant,
			Marriage: models.SensitivityNotImportant,
		}),
		Interests: datatypes.JSONSlice[string]{"hiking", "films", "cooking"},
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create personality profile: %v", err)
	}
	return profile
}
