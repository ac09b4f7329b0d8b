package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/compatibility"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for dating profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.ProfileResponse, error)
}

// IPersonalityService defines the interface for the personality questionnaire
type IPersonalityService interface {
	SubmitQuestionnaire(ctx context.Context, userID uuid.UUID, req *types.QuestionnaireRequest) (*models.PersonalityProfile, error)
	GetPersonalityProfile(ctx context.Context, userID uuid.UUID) (*models.PersonalityProfile, error)
}

// ICompatibilityService defines the interface for scoring and match search
type ICompatibilityService interface {
	ScoreCompatibility(ctx context.Context, userID, otherID uuid.UUID) (*compatibility.Result, error)
	FindMatches(ctx context.Context, userID uuid.UUID, limit, minScore int) ([]Match, error)
}

// IPremiumService defines the interface for the premium feature lifecycle
type IPremiumService interface {
	Catalog() []CatalogEntry
	ActivateFeature(ctx context.Context, userID uuid.UUID, featureType models.FeatureType, req *types.ActivateFeatureRequest) (*ActivationResult, error)
	DeactivateFeature(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) (*DeactivationResult, error)
	GetUserFeatures(ctx context.Context, userID uuid.UUID) ([]FeatureStatus, error)
	IsFeatureActive(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) (bool, error)
}

// ISupportService defines the interface for support tickets
type ISupportService interface {
	CreateTicket(ctx context.Context, userID uuid.UUID, req *types.CreateTicketRequest) (*models.SupportTicket, error)
	ListTickets(ctx context.Context, userID uuid.UUID) ([]*models.SupportTicket, error)
	UpdateTicketStatus(ctx context.Context, id uuid.UUID, status, adminNotes string) (*models.SupportTicket, error)
}

// GrantExpirer closes grants that are still flagged past their end date and
// reverts what they changed on the user. Readers of user state that grants
// control call it before reading.
type GrantExpirer interface {
	ExpireGrants(ctx context.Context, userIDs []uuid.UUID) error
}

// ScoreCache stores compatibility results per ordered pair. A miss is (nil, nil).
type ScoreCache interface {
	Get(ctx context.Context, a, b uuid.UUID) (*compatibility.Result, error)
	Set(ctx context.Context, a, b uuid.UUID, result compatibility.Result) error
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}
