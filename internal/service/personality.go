package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/compatibility"
	"github.com/heartline/heartline/backend/internal/logging"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/repository"
	"github.com/heartline/heartline/backend/internal/types"
	"github.com/heartline/heartline/backend/internal/validation"
	"gorm.io/datatypes"
)

// PersonalityService stores questionnaire answers, one profile per user.
type PersonalityService struct {
	users       repository.UserRepository
	personality repository.PersonalityRepository
	scores      ScoreCache
}

var _ IPersonalityService = (*PersonalityService)(nil)

func NewPersonalityService(users repository.UserRepository, personality repository.PersonalityRepository, scores ScoreCache) *PersonalityService {
	return &PersonalityService{
		users:       users,
		personality: personality,
		scores:      scores,
	}
}

// SubmitQuestionnaire creates the user's personality profile on first
// submission and replaces its answers afterwards.
func (s *PersonalityService) SubmitQuestionnaire(ctx context.Context, userID uuid.UUID, req *types.QuestionnaireRequest) (*models.PersonalityProfile, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	profile := &models.PersonalityProfile{
		UserID:            userID,
		PersonalityTraits: datatypes.NewJSONType(req.PersonalityTraits),
		LifestylePrefs:    datatypes.NewJSONType(req.LifestylePreferences),
		DealBreakers:      datatypes.NewJSONType(req.DealBreakers),
		Interests:         datatypes.JSONSlice[string](NormalizeInterests(req.Interests)),
		AboutMe:           strings.TrimSpace(req.AboutMe),
		WhatImLookingFor:  strings.TrimSpace(req.WhatImLookingFor),
	}
	profile.ProfileCompleteness = compatibility.ProfileCompleteness(profile)

	if err := s.personality.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	if s.scores != nil {
		if err := s.scores.InvalidateUser(ctx, userID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Msg("failed to invalidate cached scores")
		}
	}

	logging.Ctx(ctx).Info().
		Str("user_id", userID.String()).
		Int("completeness", profile.ProfileCompleteness).
		Msg("personality questionnaire saved")
	return profile, nil
}

func (s *PersonalityService) GetPersonalityProfile(ctx context.Context, userID uuid.UUID) (*models.PersonalityProfile, error) {
	profile, err := s.personality.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load personality profile: %w", err)
	}
	return profile, nil
}

// NormalizeInterests trims tags and drops empty and case-insensitive
// duplicates, keeping the first spelling seen.
func NormalizeInterests(interests []string) []string {
	seen := make(map[string]struct{}, len(interests))
	out := make([]string, 0, len(interests))
	for _, raw := range interests {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}
