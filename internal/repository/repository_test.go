package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestUserRepository(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Settings:     datatypes.NewJSONType(models.DefaultUserSettings()),
		Preferences:  datatypes.NewJSONType(models.DefaultUserPreferences()),
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	dup := &models.User{Email: "alice@example.com", PasswordHash: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrConflict)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, models.RoleUser, byEmail.Role)
	assert.Equal(t, models.TierFree, byEmail.SubscriptionTier)

	settings := byEmail.Settings.Data()
	settings.ProfileVisibility = models.VisibilityPrivate
	byEmail.Settings = datatypes.NewJSONType(settings)
	require.NoError(t, repo.Update(ctx, byEmail))

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, reloaded.Settings.Data().ProfileVisibility)
	assert.False(t, reloaded.Searchable())

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.GetByIDs(ctx, []uuid.UUID{user.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Contains(t, users, user.ID)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserRepository_UpdateSettings(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "flags@example.com")

	// A stale full-row save must not be able to drop a flag set since.
	stale, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)

	updated, err := repo.UpdateSettings(ctx, user.ID, func(st *models.UserSettings) error {
		st.PrioritySupport = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.Settings.Data().PrioritySupport)

	_, err = repo.UpdatePreferences(ctx, user.ID, func(p *models.UserPreferences) error {
		p.Location = "Lisbon"
		return nil
	})
	require.NoError(t, err)

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Settings.Data().PrioritySupport)
	assert.Equal(t, models.VisibilityPublic, reloaded.Settings.Data().ProfileVisibility)
	assert.Equal(t, "Lisbon", reloaded.Preferences.Data().Location)
	assert.Equal(t, stale.Email, reloaded.Email)

	refused := errors.New("refused")
	_, err = repo.UpdateSettings(ctx, user.ID, func(st *models.UserSettings) error {
		st.AdvancedAnalytics = true
		return refused
	})
	assert.ErrorIs(t, err, refused)
	reloaded, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Settings.Data().AdvancedAnalytics, "failed mutation writes nothing")

	_, err = repo.UpdateSettings(ctx, uuid.New(), func(*models.UserSettings) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_UpdatePreferencesPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "radius@example.com")

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdatePreferences(ctx, user.ID, func(p *models.UserPreferences) error {
				p.SearchRadius++
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSearchRadius+writers, reloaded.Preferences.Data().SearchRadius)
}

func TestProfileRepository(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "bob@example.com")

	profile, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsFeatured)

	until := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetFeatured(ctx, user.ID, true, &until))

	// profile is a snapshot from before the boost; saving it keeps the window.
	profile.DisplayName = "Bobby"
	require.NoError(t, repo.Update(ctx, profile))

	profiles, err := repo.GetByUserIDs(ctx, []uuid.UUID{user.ID})
	require.NoError(t, err)
	require.Contains(t, profiles, user.ID)
	assert.True(t, profiles[user.ID].FeaturedAt(until.Add(-time.Hour)))
	assert.False(t, profiles[user.ID].FeaturedAt(until))
	assert.Equal(t, "Bobby", profiles[user.ID].DisplayName)

	require.NoError(t, repo.SetFeatured(ctx, user.ID, false, nil))
	cleared, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, cleared.IsFeatured)
	assert.Nil(t, cleared.FeaturedUntil)

	_, err = repo.GetByUserID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SetFeatured(ctx, uuid.New(), true, &until), ErrNotFound)
}

func TestPersonalityRepository_Upsert(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPersonalityRepository(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "carol@example.com")

	first := &models.PersonalityProfile{
		UserID:              user.ID,
		PersonalityTraits:   datatypes.NewJSONType(testhelpers.Traits(10, 20, 30, 40, 50)),
		Interests:           datatypes.JSONSlice[string]{"chess"},
		ProfileCompleteness: 29,
	}
	require.NoError(t, repo.Upsert(ctx, first))
	firstID := first.ID

	second := &models.PersonalityProfile{
		UserID:              user.ID,
		PersonalityTraits:   datatypes.NewJSONType(testhelpers.Traits(90, 80, 70, 60, 50)),
		Interests:           datatypes.JSONSlice[string]{"chess", "tennis", "jazz"},
		AboutMe:             "updated",
		ProfileCompleteness: 41,
	}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, firstID, second.ID, "resubmission updates in place")

	var count int64
	require.NoError(t, db.Model(&models.PersonalityProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, *stored.PersonalityTraits.Data().Openness)
	assert.Equal(t, []string{"chess", "tennis", "jazz"}, []string(stored.Interests))
	assert.Equal(t, "updated", stored.AboutMe)
	assert.Equal(t, 41, stored.ProfileCompleteness)
}

func TestPersonalityRepository_ListExcept(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewPersonalityRepository(db)
	ctx := context.Background()

	me := testhelpers.CreateUser(t, db, "me@example.com")
	testhelpers.CreatePersonality(t, db, me, testhelpers.Traits(50, 50, 50, 50, 50))
	for _, email := range []string{"x@example.com", "y@example.com", "z@example.com"} {
		u := testhelpers.CreateUser(t, db, email)
		testhelpers.CreatePersonality(t, db, u, testhelpers.Traits(40, 40, 40, 40, 40))
	}

	others, err := repo.ListExcept(ctx, me.ID, 0)
	require.NoError(t, err)
	assert.Len(t, others, 3)
	for _, p := range others {
		assert.NotEqual(t, me.ID, p.UserID)
	}

	limited, err := repo.ListExcept(ctx, me.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSupportTicketRepository(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	repo := NewSupportTicketRepository(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "dave@example.com")

	normal := &models.SupportTicket{
		UserID: user.ID, Category: "billing", Subject: "refund", Description: "please",
		Priority: models.TicketPriorityNormal, Status: models.TicketStatusOpen,
	}
	require.NoError(t, repo.Create(ctx, normal))
	high := &models.SupportTicket{
		UserID: user.ID, Category: "safety", Subject: "report", Description: "urgent",
		Priority: models.TicketPriorityHigh, Status: models.TicketStatusOpen,
	}
	require.NoError(t, repo.Create(ctx, high))

	tickets, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, high.ID, tickets[0].ID, "high priority first")

	require.NoError(t, repo.UpdateStatus(ctx, normal.ID, models.TicketStatusResolved, "refunded"))
	got, err := repo.GetByID(ctx, normal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusResolved, got.Status)
	assert.Equal(t, "refunded", got.AdminNotes)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), models.TicketStatusClosed, ""), ErrNotFound)
}
