// Package repository holds the gorm-backed stores behind the services.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("conflicting record exists")
	// ErrActiveGrantExists is returned when a grant for the same user and
	// feature type is already active.
	ErrActiveGrantExists = errors.New("active grant already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// UpdateSettings and UpdatePreferences run mutate against the stored JSON
	// column while the user row is locked and persist only that column. An
	// error from mutate aborts the write and is returned as is.
	UpdateSettings(ctx context.Context, id uuid.UUID, mutate func(*models.UserSettings) error) (*models.User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, mutate func(*models.UserPreferences) error) (*models.User, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	SetFeatured(ctx context.Context, userID uuid.UUID, featured bool, until *time.Time) error
}

type PersonalityRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PersonalityProfile, error)
	// Upsert creates the user's profile or updates it in place.
	Upsert(ctx context.Context, profile *models.PersonalityProfile) error
	ListExcept(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PersonalityProfile, error)
}

type PremiumFeatureRepository interface {
	// Activate persists grant unless the user already holds an active grant of
	// the same type. Grants whose end date is at or before now are closed first.
	Activate(ctx context.Context, grant *models.PremiumFeature, now time.Time) error
	// FindFlagged returns the grant with is_active set, expired or not.
	FindFlagged(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) (*models.PremiumFeature, error)
	// Deactivate clears is_active on the grant. It reports false when the grant
	// was already inactive.
	Deactivate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.PremiumFeature, error)
	// ListExpiredFlagged returns grants of userIDs that still carry is_active
	// although their end date is at or before now.
	ListExpiredFlagged(ctx context.Context, userIDs []uuid.UUID, now time.Time) ([]*models.PremiumFeature, error)
}

type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *models.SupportTicket) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SupportTicket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, adminNotes string) error
}

// translate maps gorm errors onto repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}
