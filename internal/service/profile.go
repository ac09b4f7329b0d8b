package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/logging"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/repository"
	"github.com/heartline/heartline/backend/internal/types"
	"github.com/heartline/heartline/backend/internal/validation"
)

// ProfileService handles the account and dating profile of a user
type ProfileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	expirer  GrantExpirer
}

var _ IProfileService = (*ProfileService)(nil)

// NewProfileService builds the service. expirer may be nil, in which case
// lapsed grants are not reverted before reads.
func NewProfileService(users repository.UserRepository, profiles repository.ProfileRepository, expirer GrantExpirer) *ProfileService {
	return &ProfileService{
		users:    users,
		profiles: profiles,
		expirer:  expirer,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error) {
	user, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(user, profile), nil
}

// UpdateProfile applies the non-nil fields of req.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.ProfileResponse, error) {
	user, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.MinAge != nil || req.MaxAge != nil {
		user, err = s.users.UpdatePreferences(ctx, userID, func(prefs *models.UserPreferences) error {
			if req.MinAge != nil {
				prefs.MinAge = *req.MinAge
			}
			if req.MaxAge != nil {
				prefs.MaxAge = *req.MaxAge
			}
			if prefs.MinAge > 0 && prefs.MaxAge > 0 && prefs.MinAge > prefs.MaxAge {
				return &validation.Error{Fields: []validation.FieldError{{
					Field:   "min_age",
					Tag:     "ltefield",
					Message: "min_age must not exceed max_age",
				}}}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if req.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.City != nil {
		profile.City = strings.TrimSpace(*req.City)
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	return toProfileResponse(user, profile), nil
}

func (s *ProfileService) load(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, error) {
	if s.expirer != nil {
		if err := s.expirer.ExpireGrants(ctx, []uuid.UUID{userID}); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to expire lapsed grants")
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, profile, nil
}

func toProfileResponse(user *models.User, profile *models.Profile) *types.ProfileResponse {
	settings := user.Settings.Data()
	prefs := user.Preferences.Data()
	return &types.ProfileResponse{
		UserID:           user.ID,
		Email:            user.Email,
		Role:             user.Role,
		SubscriptionTier: user.SubscriptionTier,
		DisplayName:      profile.DisplayName,
		Bio:              profile.Bio,
		Gender:           profile.Gender,
		BirthDate:        profile.BirthDate,
		City:             profile.City,
		IsFeatured:       profile.IsFeatured,
		FeaturedUntil:    profile.FeaturedUntil,
		Visibility:       settings.ProfileVisibility,
		Location:         prefs.Location,
		SearchRadius:     prefs.SearchRadius,
	}
}
