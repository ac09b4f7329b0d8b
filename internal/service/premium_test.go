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

func newPremiumService(s *stores) *service.PremiumService {
	return service.NewPremiumService(s.users, s.profiles, s.grants, s.clock)
}

func days(n int) *int {
	return &n
}

func TestCatalog(t *testing.T) {
	svc := newPremiumService(newStores(t))

	entries := svc.Catalog()
	require.Len(t, entries, 5)

	want := map[models.FeatureType]struct {
		price float64
		days  int
	}{
		models.FeatureIncognito:         {9.99, 30},
		models.FeatureProfileBoost:      {4.99, 7},
		models.FeatureTravelMode:        {7.99, 14},
		models.FeaturePrioritySupport:   {19.99, 30},
		models.FeatureAdvancedAnalytics: {14.99, 30},
	}
	for _, e := range entries {
		w, ok := want[e.FeatureType]
		require.True(t, ok, "unexpected feature %s", e.FeatureType)
		assert.Equal(t, w.price, e.Price)
		assert.Equal(t, w.days, e.DefaultDurationDays)
	}
}

func TestActivateFeature_Validation(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "validate@example.com")

	_, err := svc.ActivateFeature(ctx, user.ID, "teleport", nil)
	assert.ErrorIs(t, err, service.ErrInvalidFeatureType)

	_, err = svc.ActivateFeature(ctx, user.ID, models.FeatureIncognito, &types.ActivateFeatureRequest{DurationDays: days(0)})
	assert.ErrorIs(t, err, service.ErrInvalidDuration)

	_, err = svc.ActivateFeature(ctx, user.ID, models.FeatureTravelMode, nil)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "location", verr.Fields[0].Field)

	_, err = svc.ActivateFeature(ctx, user.ID, models.FeatureTravelMode, &types.ActivateFeatureRequest{
		Settings: &models.FeatureSettings{Location: "Lisbon", Radius: 900},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "radius", verr.Fields[0].Field)

	grants, err := s.grants.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, grants, "rejected activations leave no state")
}

func TestActivateFeature_UnknownUser(t *testing.T) {
	svc := newPremiumService(newStores(t))

	_, err := svc.ActivateFeature(context.Background(), uuid.New(), models.FeatureIncognito, nil)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestActivateFeature_SecondActivationConflicts(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "twice@example.com")

	first, err := svc.ActivateFeature(ctx, user.ID, models.FeatureIncognito, nil)
	require.NoError(t, err)
	assert.True(t, first.Grant.IsActive)
	assert.Equal(t, 9.99, first.Grant.Cost)
	assert.True(t, first.Grant.EndDate.Equal(epoch.AddDate(0, 0, 30)))
	assert.False(t, first.SideEffects.Failed())

	s.clock.Advance(time.Minute)
	_, err = svc.ActivateFeature(ctx, user.ID, models.FeatureIncognito, nil)
	assert.ErrorIs(t, err, service.ErrFeatureAlreadyActive)

	statuses, err := svc.GetUserFeatures(ctx, user.ID)
	require.NoError(t, err)
	active := 0
	for _, st := range statuses {
		if st.EffectiveActive {
			active++
		}
	}
	assert.Equal(t, 1, active)
	assert.Len(t, statuses, 1)
}

func TestActivateFeature_IncognitoSideEffects(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "hidden@example.com")

	_, err := svc.ActivateFeature(ctx, user.ID, models.FeatureIncognito, nil)
	require.NoError(t, err)

	settings := s.reloadUser(t, user.ID).Settings.Data()
	assert.Equal(t, models.VisibilityPrivate, settings.ProfileVisibility)
	assert.False(t, settings.ShowOnlineStatus)
	assert.False(t, settings.ShowLastSeen)

	res, err := svc.DeactivateFeature(ctx, user.ID, models.FeatureIncognito)
	require.NoError(t, err)
	assert.True(t, res.Deactivated)
	require.NotNil(t, res.SideEffects)
	assert.True(t, res.SideEffects.Applied)

	settings = s.reloadUser(t, user.ID).Settings.Data()
	assert.Equal(t, models.VisibilityPublic, settings.ProfileVisibility)
	assert.True(t, settings.ShowOnlineStatus)
	assert.True(t, settings.ShowLastSeen)
}

func TestProfileBoost_DeactivateThenReactivate(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "boost@example.com")

	res, err := svc.ActivateFeature(ctx, user.ID, models.FeatureProfileBoost, &types.ActivateFeatureRequest{DurationDays: days(7)})
	require.NoError(t, err)
	assert.Equal(t, 4.99, res.Grant.Cost)

	profile := s.reloadProfile(t, user.ID)
	assert.True(t, profile.IsFeatured)
	require.NotNil(t, profile.FeaturedUntil)
	assert.True(t, profile.FeaturedUntil.Equal(epoch.Add(7*24*time.Hour)))

	deact, err := svc.DeactivateFeature(ctx, user.ID, models.FeatureProfileBoost)
	require.NoError(t, err)
	assert.True(t, deact.Deactivated)
	assert.False(t, s.reloadProfile(t, user.ID).IsFeatured)

	_, err = svc.ActivateFeature(ctx, user.ID, models.FeatureProfileBoost, &types.ActivateFeatureRequest{DurationDays: days(7)})
	assert.NoError(t, err, "no leftover conflict after deactivation")
}

func TestBoostWindowIsIndependentOfGrant(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	user := testhelpers.CreateUser(t, s.db, "longboost@example.com")

	res, err := svc.ActivateFeature(context.Background(), user.ID, models.FeatureProfileBoost, &types.ActivateFeatureRequest{DurationDays: days(30)})
	require.NoError(t, err)
	assert.True(t, res.Grant.EndDate.Equal(epoch.AddDate(0, 0, 30)))

	profile := s.reloadProfile(t, user.ID)
	require.NotNil(t, profile.FeaturedUntil)
	assert.True(t, profile.FeaturedUntil.Equal(epoch.Add(7*24*time.Hour)))
}

func TestTravelMode_SideEffects(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "travel@example.com")

	_, err := svc.ActivateFeature(ctx, user.ID, models.FeatureTravelMode, &types.ActivateFeatureRequest{
		Settings: &models.FeatureSettings{Location: "Kyoto", Radius: 25},
	})
	require.NoError(t, err)

	prefs := s.reloadUser(t, user.ID).Preferences.Data()
	assert.Equal(t, "Kyoto", prefs.Location)
	assert.Equal(t, 25, prefs.SearchRadius)

	_, err = svc.DeactivateFeature(ctx, user.ID, models.FeatureTravelMode)
	require.NoError(t, err)

	prefs = s.reloadUser(t, user.ID).Preferences.Data()
	assert.Equal(t, "", prefs.Location)
	assert.Equal(t, models.DefaultSearchRadius, prefs.SearchRadius)

	// Radius falls back to the platform default.
	_, err = svc.ActivateFeature(ctx, user.ID, models.FeatureTravelMode, &types.ActivateFeatureRequest{
		Settings: &models.FeatureSettings{Location: "Oslo"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSearchRadius, s.reloadUser(t, user.ID).Preferences.Data().SearchRadius)
}

func TestFlagOnlyFeatures(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "flags@example.com")

	_, err := svc.ActivateFeature(ctx, user.ID, models.FeaturePrioritySupport, nil)
	require.NoError(t, err)
	_, err = svc.ActivateFeature(ctx, user.ID, models.FeatureAdvancedAnalytics, nil)
	require.NoError(t, err)

	settings := s.reloadUser(t, user.ID).Settings.Data()
	assert.True(t, settings.PrioritySupport)
	assert.True(t, settings.AdvancedAnalytics)
	assert.Equal(t, models.VisibilityPublic, settings.ProfileVisibility)

	_, err = svc.DeactivateFeature(ctx, user.ID, models.FeatureAdvancedAnalytics)
	require.NoError(t, err)

	settings = s.reloadUser(t, user.ID).Settings.Data()
	assert.True(t, settings.PrioritySupport)
	assert.False(t, settings.AdvancedAnalytics)
}

func TestDeactivateFeature_NothingActive(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	user := testhelpers.CreateUser(t, s.db, "idle@example.com")

	res, err := svc.DeactivateFeature(context.Background(), user.ID, models.FeatureIncognito)
	require.NoError(t, err)
	assert.False(t, res.Deactivated)
	assert.Nil(t, res.SideEffects)

	_, err = svc.DeactivateFeature(context.Background(), user.ID, "teleport")
	assert.ErrorIs(t, err, service.ErrInvalidFeatureType)
}

func TestLazyExpiry(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "expiry@example.com")

	res, err := svc.ActivateFeature(ctx, user.ID, models.FeatureIncognito, nil)
	require.NoError(t, err)

	active, err := svc.IsFeatureActive(ctx, user.ID, models.FeatureIncognito)
	require.NoError(t, err)
	assert.True(t, active)

	s.clock.Set(res.Grant.EndDate.Add(time.Second))

	// The stored flag is still set but the grant no longer counts.
	active, err = svc.IsFeatureActive(ctx, user.ID, models.FeatureIncognito)
	require.NoError(t, err)
	assert.False(t, active)

	statuses, err := svc.GetUserFeatures(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].EffectiveActive)
	assert.False(t, statuses[0].IsActive)

	// Reading flipped the row and reverted the visibility change.
	var stored models.PremiumFeature
	require.NoError(t, s.db.First(&stored, "id = ?", res.Grant.ID).Error)
	assert.False(t, stored.IsActive)
	assert.Equal(t, models.VisibilityPublic, s.reloadUser(t, user.ID).Settings.Data().ProfileVisibility)

	_, err = svc.ActivateFeature(ctx, user.ID, models.FeatureIncognito, nil)
	assert.NoError(t, err)
}

func TestLazyExpiry_EndDateBoundary(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "boundary@example.com")

	res, err := svc.ActivateFeature(ctx, user.ID, models.FeaturePrioritySupport, &types.ActivateFeatureRequest{DurationDays: days(1)})
	require.NoError(t, err)

	s.clock.Set(res.Grant.EndDate)
	active, err := svc.IsFeatureActive(ctx, user.ID, models.FeaturePrioritySupport)
	require.NoError(t, err)
	assert.False(t, active, "a grant ending now is no longer active")
}

func TestActivateFeature_ReplacesExpiredGrant(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "renew@example.com")

	first, err := svc.ActivateFeature(ctx, user.ID, models.FeatureTravelMode, &types.ActivateFeatureRequest{
		Settings: &models.FeatureSettings{Location: "Rome"},
	})
	require.NoError(t, err)

	s.clock.Set(first.Grant.EndDate.Add(time.Hour))
	second, err := svc.ActivateFeature(ctx, user.ID, models.FeatureTravelMode, &types.ActivateFeatureRequest{
		Settings: &models.FeatureSettings{Location: "Paris"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.Grant.ID, second.Grant.ID)
	assert.Equal(t, "Paris", s.reloadUser(t, user.ID).Preferences.Data().Location)
}

func TestDeactivateFeature_ExpiredButFlagged(t *testing.T) {
	s := newStores(t)
	svc := newPremiumService(s)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "late@example.com")

	res, err := svc.ActivateFeature(ctx, user.ID, models.FeatureIncognito, nil)
	require.NoError(t, err)

	s.clock.Set(res.Grant.EndDate.Add(time.Hour))
	deact, err := svc.DeactivateFeature(ctx, user.ID, models.FeatureIncognito)
	require.NoError(t, err)
	assert.True(t, deact.Deactivated)
	assert.Equal(t, models.VisibilityPublic, s.reloadUser(t, user.ID).Settings.Data().ProfileVisibility)

	again, err := svc.DeactivateFeature(ctx, user.ID, models.FeatureIncognito)
	require.NoError(t, err)
	assert.False(t, again.Deactivated)
}

func TestSideEffectFailureDoesNotRollBackGrant(t *testing.T) {
	s := newStores(t)
	svc := service.NewPremiumService(failingUsers{s.users}, s.profiles, s.grants, s.clock)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "flaky@example.com")

	res, err := svc.ActivateFeature(ctx, user.ID, models.FeatureIncognito, nil)
	require.NoError(t, err)
	assert.True(t, res.SideEffects.Failed())
	assert.False(t, res.SideEffects.Applied)
	assert.ErrorIs(t, res.SideEffects.Err, errWriteRefused)
	assert.NotEmpty(t, res.SideEffects.Message)

	active, err := svc.IsFeatureActive(ctx, user.ID, models.FeatureIncognito)
	require.NoError(t, err)
	assert.True(t, active, "grant survives the failed side effect")
	assert.Equal(t, models.VisibilityPublic, s.reloadUser(t, user.ID).Settings.Data().ProfileVisibility)

	deact, err := svc.DeactivateFeature(ctx, user.ID, models.FeatureIncognito)
	require.NoError(t, err)
	assert.True(t, deact.Deactivated)
	require.NotNil(t, deact.SideEffects)
	assert.True(t, deact.SideEffects.Failed())
}

func TestOverlappingSideEffectsKeepBothFlags(t *testing.T) {
	s := newStores(t)
	users := newGatedUsers(s.users)
	svc := service.NewPremiumService(users, s.profiles, s.grants, s.clock)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "overlap@example.com")

	done := make(chan *service.ActivationResult, 1)
	go func() {
		res, err := svc.ActivateFeature(ctx, user.ID, models.FeatureIncognito, nil)
		assert.NoError(t, err)
		done <- res
	}()

	// Incognito's grant is committed and its settings write is held back.
	select {
	case <-users.entered:
	case <-done:
		t.Fatal("incognito activation finished without writing settings")
	}
	support, err := svc.ActivateFeature(ctx, user.ID, models.FeaturePrioritySupport, nil)
	require.NoError(t, err)
	assert.False(t, support.SideEffects.Failed())
	close(users.release)

	incognito := <-done
	require.NotNil(t, incognito)
	assert.False(t, incognito.SideEffects.Failed())

	settings := s.reloadUser(t, user.ID).Settings.Data()
	assert.Equal(t, models.VisibilityPrivate, settings.ProfileVisibility)
	assert.True(t, settings.PrioritySupport)
}
