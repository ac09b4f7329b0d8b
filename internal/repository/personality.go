package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormPersonalityRepository struct {
	db *gorm.DB
}

var _ PersonalityRepository = (*GormPersonalityRepository)(nil)

func NewPersonalityRepository(db *gorm.DB) *GormPersonalityRepository {
	return &GormPersonalityRepository{db: db}
}

func (r *GormPersonalityRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PersonalityProfile, error) {
	var profile models.PersonalityProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// Upsert relies on the unique user_id index so concurrent first submissions
// still leave a single row.
func (r *GormPersonalityRepository) Upsert(ctx context.Context, profile *models.PersonalityProfile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"personality_traits",
			"lifestyle_preferences",
			"deal_breakers",
			"interests",
			"about_me",
			"what_im_looking_for",
			"profile_completeness",
			"updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to save personality profile: %w", translate(err))
	}

	// On conflict the generated ID is not the stored one; reload it.
	stored, err := r.GetByUserID(ctx, profile.UserID)
	if err != nil {
		return fmt.Errorf("failed to reload personality profile: %w", err)
	}
	*profile = *stored
	return nil
}

func (r *GormPersonalityRepository) ListExcept(ctx context.Context, userID uuid.UUID, limit int) ([]*models.PersonalityProfile, error) {
	var profiles []*models.PersonalityProfile
	query := r.db.WithContext(ctx).Where("user_id <> ?", userID).Order("profile_completeness DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list personality profiles: %w", err)
	}
	return profiles, nil
}
