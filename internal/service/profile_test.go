package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/service"
	"github.com/heartline/heartline/backend/internal/testhelpers"
	"github.com/heartline/heartline/backend/internal/types"
	"github.com/heartline/heartline/backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestProfileService(t *testing.T) {
	s := newStores(t)
	svc := service.NewProfileService(s.users, s.profiles, nil)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "profile@example.com")

	got, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "profile@example.com", got.Email)
	assert.Equal(t, "public", got.Visibility)

	updated, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		DisplayName: strPtr(" Sam "),
		City:        strPtr("Porto"),
		MinAge:      testhelpers.IntPtr(25),
		MaxAge:      testhelpers.IntPtr(35),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.DisplayName)
	assert.Equal(t, "Porto", updated.City)

	prefs := s.reloadUser(t, user.ID).Preferences.Data()
	assert.Equal(t, 25, prefs.MinAge)
	assert.Equal(t, 35, prefs.MaxAge)

	_, err = svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		DisplayName: strPtr("Ignored"),
		MinAge:      testhelpers.IntPtr(40),
	})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Sam", s.reloadProfile(t, user.ID).DisplayName, "rejected update changes nothing")

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestProfileService_LapsedTravelModeIsReverted(t *testing.T) {
	s := newStores(t)
	premium := newPremiumService(s)
	svc := service.NewProfileService(s.users, s.profiles, premium)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "nomad@example.com")

	_, err := premium.ActivateFeature(ctx, user.ID, models.FeatureTravelMode, &types.ActivateFeatureRequest{
		DurationDays: testhelpers.IntPtr(3),
		Settings:     &models.FeatureSettings{Location: "Kyoto", Radius: 25},
	})
	require.NoError(t, err)

	got, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", got.Location)
	assert.Equal(t, 25, got.SearchRadius)

	s.clock.Advance(3*24*time.Hour + time.Second)

	got, err = svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Location)
	assert.Equal(t, models.DefaultSearchRadius, got.SearchRadius)

	active, err := premium.IsFeatureActive(ctx, user.ID, models.FeatureTravelMode)
	require.NoError(t, err)
	assert.False(t, active)
}
