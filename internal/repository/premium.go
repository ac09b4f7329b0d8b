package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormPremiumFeatureRepository struct {
	db *gorm.DB
}

var _ PremiumFeatureRepository = (*GormPremiumFeatureRepository)(nil)

func NewPremiumFeatureRepository(db *gorm.DB) *GormPremiumFeatureRepository {
	return &GormPremiumFeatureRepository{db: db}
}

// Activate serialises activations per user by locking the user row. The
// partial unique index on (user_id, feature_type) WHERE is_active catches
// anything the lock does not, e.g. on SQLite where FOR UPDATE is ignored.
func (r *GormPremiumFeatureRepository) Activate(ctx context.Context, grant *models.PremiumFeature, now time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&owner, "id = ?", grant.UserID).Error; err != nil {
			return translate(err)
		}

		// Expired grants still carrying the flag would block the index.
		if err := tx.Model(&models.PremiumFeature{}).
			Where("user_id = ? AND feature_type = ? AND is_active = ? AND end_date <= ?",
				grant.UserID, grant.FeatureType, true, now).
			Updates(map[string]interface{}{
				"is_active":      false,
				"deactivated_at": now,
				"updated_at":     now,
			}).Error; err != nil {
			return fmt.Errorf("failed to close expired grants: %w", err)
		}

		var active int64
		if err := tx.Model(&models.PremiumFeature{}).
			Where("user_id = ? AND feature_type = ? AND is_active = ?", grant.UserID, grant.FeatureType, true).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to check active grants: %w", err)
		}
		if active > 0 {
			return ErrActiveGrantExists
		}

		grant.IsActive = true
		if err := tx.Create(grant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrActiveGrantExists
			}
			return fmt.Errorf("failed to create grant: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *GormPremiumFeatureRepository) FindFlagged(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) (*models.PremiumFeature, error) {
	var grant models.PremiumFeature
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND feature_type = ? AND is_active = ?", userID, featureType, true).
		Order("start_date DESC").
		First(&grant).Error
	if err != nil {
		return nil, translate(err)
	}
	return &grant, nil
}

func (r *GormPremiumFeatureRepository) Deactivate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PremiumFeature{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":      false,
			"deactivated_at": at,
			"updated_at":     at,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to deactivate grant: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *GormPremiumFeatureRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.PremiumFeature, error) {
	var grants []*models.PremiumFeature
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	return grants, nil
}

func (r *GormPremiumFeatureRepository) ListExpiredFlagged(ctx context.Context, userIDs []uuid.UUID, now time.Time) ([]*models.PremiumFeature, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var grants []*models.PremiumFeature
	if err := r.db.WithContext(ctx).
		Where("user_id IN ? AND is_active = ? AND end_date <= ?", userIDs, true, now).
		Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("failed to list expired grants: %w", err)
	}
	return grants, nil
}
