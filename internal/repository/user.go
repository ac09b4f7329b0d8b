package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormUserRepository struct {
	db *gorm.DB
}

var _ UserRepository = (*GormUserRepository)(nil)

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	result := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", translate(err))
	}
	return nil
}

func (r *GormUserRepository) UpdateSettings(ctx context.Context, id uuid.UUID, mutate func(*models.UserSettings) error) (*models.User, error) {
	return r.updateLocked(ctx, id, func(user *models.User) (string, interface{}, error) {
		settings := user.Settings.Data()
		if err := mutate(&settings); err != nil {
			return "", nil, err
		}
		user.Settings = datatypes.NewJSONType(settings)
		return "settings", user.Settings, nil
	})
}

func (r *GormUserRepository) UpdatePreferences(ctx context.Context, id uuid.UUID, mutate func(*models.UserPreferences) error) (*models.User, error) {
	return r.updateLocked(ctx, id, func(user *models.User) (string, interface{}, error) {
		prefs := user.Preferences.Data()
		if err := mutate(&prefs); err != nil {
			return "", nil, err
		}
		user.Preferences = datatypes.NewJSONType(prefs)
		return "preferences", user.Preferences, nil
	})
}

// updateLocked reads the user under a row lock and writes back the single
// column change picks. Other columns of the row are left untouched.
func (r *GormUserRepository) updateLocked(ctx context.Context, id uuid.UUID, change func(*models.User) (string, interface{}, error)) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		column, value, err := change(&user)
		if err != nil {
			return err
		}
		return tx.Model(&user).Update(column, value).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
