package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/clock"
	"github.com/heartline/heartline/backend/internal/compatibility"
	"github.com/heartline/heartline/backend/internal/logging"
	"github.com/heartline/heartline/backend/internal/metrics"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/repository"
)

const (
	DefaultMatchLimit = 20
	MaxMatchLimit     = 100
)

// Match is one search result, scored from the searcher's point of view.
type Match struct {
	UserID      uuid.UUID               `json:"user_id"`
	DisplayName string                  `json:"display_name"`
	City        string                  `json:"city,omitempty"`
	Featured    bool                    `json:"featured"`
	Score       int                     `json:"score"`
	Breakdown   compatibility.Breakdown `json:"breakdown"`
}

type CompatibilityService struct {
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	personality repository.PersonalityRepository
	scores      ScoreCache
	expirer     GrantExpirer
	clock       clock.Clock
}

var _ ICompatibilityService = (*CompatibilityService)(nil)

func NewCompatibilityService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	personality repository.PersonalityRepository,
	scores ScoreCache,
	expirer GrantExpirer,
	clk clock.Clock,
) *CompatibilityService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &CompatibilityService{
		users:       users,
		profiles:    profiles,
		personality: personality,
		scores:      scores,
		expirer:     expirer,
		clock:       clk,
	}
}

// ScoreCompatibility scores userID against otherID. Cache failures only cost
// a recomputation.
func (s *CompatibilityService) ScoreCompatibility(ctx context.Context, userID, otherID uuid.UUID) (*compatibility.Result, error) {
	log := logging.Ctx(ctx)

	if s.scores != nil {
		cached, err := s.scores.Get(ctx, userID, otherID)
		switch {
		case err != nil:
			metrics.ScoreCacheLookups.WithLabelValues("error").Inc()
			log.Warn().Err(err).Msg("score cache lookup failed")
		case cached != nil:
			metrics.ScoreCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.ScoreCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	mine, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.loadProfile(ctx, otherID)
	if err != nil {
		return nil, err
	}

	result := compatibility.Evaluate(compatibility.InputFromProfile(mine), compatibility.InputFromProfile(theirs))
	metrics.CompatibilityScores.Observe(float64(result.Score))

	if s.scores != nil {
		if err := s.scores.Set(ctx, userID, otherID, result); err != nil {
			log.Warn().Err(err).Msg("failed to cache compatibility score")
		}
	}
	return &result, nil
}

// FindMatches scores every searchable user with a questionnaire against
// userID and returns the best ones. Ties go to featured profiles.
func (s *CompatibilityService) FindMatches(ctx context.Context, userID uuid.UUID, limit, minScore int) ([]Match, error) {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	if limit > MaxMatchLimit {
		limit = MaxMatchLimit
	}

	mine, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	me := compatibility.InputFromProfile(mine)

	candidates, err := s.personality.ListExcept(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []Match{}, nil
	}

	ids := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.UserID
	}
	// Visibility comes from user settings, so lapsed incognito grants are
	// reverted before the owners are read.
	if s.expirer != nil {
		if err := s.expirer.ExpireGrants(ctx, ids); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to expire lapsed grants before search")
		}
	}
	owners, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		owner, ok := owners[candidate.UserID]
		if !ok || !owner.Searchable() {
			continue
		}

		result := compatibility.Evaluate(me, compatibility.InputFromProfile(candidate))
		if result.Score < minScore {
			continue
		}

		match := Match{
			UserID:    candidate.UserID,
			Score:     result.Score,
			Breakdown: result.Breakdown,
		}
		if p, ok := profiles[candidate.UserID]; ok {
			match.DisplayName = p.DisplayName
			match.City = p.City
			match.Featured = p.FeaturedAt(now)
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Featured && !matches[j].Featured
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *CompatibilityService) loadProfile(ctx context.Context, userID uuid.UUID) (*models.PersonalityProfile, error) {
	profile, err := s.personality.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrProfileNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load personality profile: %w", err)
	}
	return profile, nil
}
