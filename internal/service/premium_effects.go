package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/models"
)

// boostWindow is how long profile_boost keeps a profile featured. It runs
// independently of the grant's own end date.
const boostWindow = 7 * 24 * time.Hour

const (
	phaseApply  = "apply"
	phaseRevert = "revert"
)

// SideEffectOutcome reports what happened to the user state a grant controls.
// A failed effect never undoes the grant change that triggered it.
type SideEffectOutcome struct {
	FeatureType models.FeatureType `json:"feature_type"`
	Applied     bool               `json:"applied"`
	Message     string             `json:"error,omitempty"`
	Err         error              `json:"-"`
}

func newOutcome(featureType models.FeatureType, err error) SideEffectOutcome {
	outcome := SideEffectOutcome{FeatureType: featureType, Applied: err == nil, Err: err}
	if err != nil {
		outcome.Message = err.Error()
	}
	return outcome
}

func (o SideEffectOutcome) Failed() bool {
	return o.Err != nil
}

// applyEffect mirrors an activated grant onto the user and profile records.
func (s *PremiumService) applyEffect(ctx context.Context, grant *models.PremiumFeature, now time.Time) error {
	switch grant.FeatureType {
	case models.FeatureIncognito:
		return s.updateSettings(ctx, grant.UserID, func(st *models.UserSettings) {
			st.ProfileVisibility = models.VisibilityPrivate
			st.ShowOnlineStatus = false
			st.ShowLastSeen = false
		})
	case models.FeatureProfileBoost:
		until := now.Add(boostWindow)
		return s.updateProfile(ctx, grant.UserID, true, &until)
	case models.FeatureTravelMode:
		settings := grant.Settings.Data()
		radius := settings.Radius
		if radius == 0 {
			radius = models.DefaultSearchRadius
		}
		return s.updatePreferences(ctx, grant.UserID, settings.Location, radius)
	case models.FeaturePrioritySupport:
		return s.updateSettings(ctx, grant.UserID, func(st *models.UserSettings) {
			st.PrioritySupport = true
		})
	case models.FeatureAdvancedAnalytics:
		return s.updateSettings(ctx, grant.UserID, func(st *models.UserSettings) {
			st.AdvancedAnalytics = true
		})
	}
	return fmt.Errorf("%w: %s", ErrInvalidFeatureType, grant.FeatureType)
}

// revertEffect restores the platform defaults a grant overrode.
func (s *PremiumService) revertEffect(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) error {
	switch featureType {
	case models.FeatureIncognito:
		return s.updateSettings(ctx, userID, func(st *models.UserSettings) {
			st.ProfileVisibility = models.VisibilityPublic
			st.ShowOnlineStatus = true
			st.ShowLastSeen = true
		})
	case models.FeatureProfileBoost:
		return s.updateProfile(ctx, userID, false, nil)
	case models.FeatureTravelMode:
		return s.updatePreferences(ctx, userID, "", models.DefaultSearchRadius)
	case models.FeaturePrioritySupport:
		return s.updateSettings(ctx, userID, func(st *models.UserSettings) {
			st.PrioritySupport = false
		})
	case models.FeatureAdvancedAnalytics:
		return s.updateSettings(ctx, userID, func(st *models.UserSettings) {
			st.AdvancedAnalytics = false
		})
	}
	return fmt.Errorf("%w: %s", ErrInvalidFeatureType, featureType)
}

func (s *PremiumService) updateSettings(ctx context.Context, userID uuid.UUID, mutate func(*models.UserSettings)) error {
	_, err := s.users.UpdateSettings(ctx, userID, func(st *models.UserSettings) error {
		mutate(st)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update user settings: %w", err)
	}
	return nil
}

func (s *PremiumService) updatePreferences(ctx context.Context, userID uuid.UUID, location string, radius int) error {
	_, err := s.users.UpdatePreferences(ctx, userID, func(prefs *models.UserPreferences) error {
		prefs.Location = location
		prefs.SearchRadius = radius
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update user preferences: %w", err)
	}
	return nil
}

func (s *PremiumService) updateProfile(ctx context.Context, userID uuid.UUID, featured bool, until *time.Time) error {
	if err := s.profiles.SetFeatured(ctx, userID, featured, until); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
