package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/clock"
	"github.com/heartline/heartline/backend/internal/compatibility"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/repository"
	"github.com/heartline/heartline/backend/internal/testhelpers"
	"gorm.io/gorm"
)

var epoch = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

type stores struct {
	db          *gorm.DB
	users       *repository.GormUserRepository
	profiles    *repository.GormProfileRepository
	personality *repository.GormPersonalityRepository
	grants      *repository.GormPremiumFeatureRepository
	tickets     *repository.GormSupportTicketRepository
	clock       *clock.Mock
}

func newStores(t *testing.T) *stores {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return &stores{
		db:          db,
		users:       repository.NewUserRepository(db),
		profiles:    repository.NewProfileRepository(db),
		personality: repository.NewPersonalityRepository(db),
		grants:      repository.NewPremiumFeatureRepository(db),
		tickets:     repository.NewSupportTicketRepository(db),
		clock:       clock.NewMock(epoch),
	}
}

func (s *stores) reloadUser(t *testing.T, id uuid.UUID) *models.User {
	t.Helper()
	user, err := s.users.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	return user
}

func (s *stores) reloadProfile(t *testing.T, id uuid.UUID) *models.Profile {
	t.Helper()
	profile, err := s.profiles.GetByUserID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	return profile
}

// failingUsers reads through to the real store but refuses writes.
type failingUsers struct {
	repository.UserRepository
}

var errWriteRefused = errors.New("write refused")

func (failingUsers) Update(ctx context.Context, user *models.User) error {
	return errWriteRefused
}

func (failingUsers) UpdateSettings(ctx context.Context, id uuid.UUID, mutate func(*models.UserSettings) error) (*models.User, error) {
	return nil, errWriteRefused
}

func (failingUsers) UpdatePreferences(ctx context.Context, id uuid.UUID, mutate func(*models.UserPreferences) error) (*models.User, error) {
	return nil, errWriteRefused
}

// gatedUsers holds the first settings write until release is closed, so a
// second activation can run to completion in between.
type gatedUsers struct {
	repository.UserRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedUsers(inner repository.UserRepository) *gatedUsers {
	return &gatedUsers{
		UserRepository: inner,
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
}

func (g *gatedUsers) UpdateSettings(ctx context.Context, id uuid.UUID, mutate func(*models.UserSettings) error) (*models.User, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.UserRepository.UpdateSettings(ctx, id, mutate)
}

// memoryScoreCache is an in-process ScoreCache used to observe cache traffic.
type memoryScoreCache struct {
	mu          sync.Mutex
	entries     map[[2]uuid.UUID]compatibility.Result
	invalidated []uuid.UUID
}

func newMemoryScoreCache() *memoryScoreCache {
	return &memoryScoreCache{entries: make(map[[2]uuid.UUID]compatibility.Result)}
}

func (c *memoryScoreCache) Get(ctx context.Context, a, b uuid.UUID) (*compatibility.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.entries[[2]uuid.UUID{a, b}]; ok {
		return &r, nil
	}
	return nil, nil
}

func (c *memoryScoreCache) Set(ctx context.Context, a, b uuid.UUID, result compatibility.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[[2]uuid.UUID{a, b}] = result
	return nil
}

func (c *memoryScoreCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	for key := range c.entries {
		if key[0] == userID || key[1] == userID {
			delete(c.entries, key)
		}
	}
	return nil
}
