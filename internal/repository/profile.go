package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/models"
	"gorm.io/gorm"
)

type GormProfileRepository struct {
	db *gorm.DB
}

var _ ProfileRepository = (*GormProfileRepository)(nil)

func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", translate(err))
	}
	return nil
}

func (r *GormProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *GormProfileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	result := make(map[uuid.UUID]*models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	for _, p := range profiles {
		result[p.UserID] = p
	}
	return result, nil
}

// Update writes the owner-editable columns of profile. The featured window
// belongs to SetFeatured.
func (r *GormProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	err := r.db.WithContext(ctx).
		Model(profile).
		Select("display_name", "bio", "gender", "birth_date", "city", "updated_at").
		Updates(profile).Error
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", translate(err))
	}
	return nil
}

func (r *GormProfileRepository) SetFeatured(ctx context.Context, userID uuid.UUID, featured bool, until *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_featured":    featured,
			"featured_until": until,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update featured window: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
