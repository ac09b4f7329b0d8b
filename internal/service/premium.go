package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/clock"
	"github.com/heartline/heartline/backend/internal/logging"
	"github.com/heartline/heartline/backend/internal/metrics"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/repository"
	"github.com/heartline/heartline/backend/internal/types"
	"github.com/heartline/heartline/backend/internal/validation"
	"gorm.io/datatypes"
)

// ActivationResult carries the persisted grant and the outcome of its side
// effects. SideEffects.Failed() does not make the activation fail.
type ActivationResult struct {
	Grant       *models.PremiumFeature `json:"grant"`
	SideEffects SideEffectOutcome      `json:"side_effects"`
}

// DeactivationResult reports whether a flagged grant was found and closed.
// Deactivated is false when there was nothing to deactivate.
type DeactivationResult struct {
	Deactivated bool                   `json:"deactivated"`
	Grant       *models.PremiumFeature `json:"grant,omitempty"`
	SideEffects *SideEffectOutcome     `json:"side_effects,omitempty"`
}

// FeatureStatus is a grant plus its lazily evaluated activity at read time.
type FeatureStatus struct {
	*models.PremiumFeature
	EffectiveActive bool `json:"effective_active"`
}

// PremiumService manages time-bounded premium feature grants. Expiry is
// evaluated lazily against the clock; nothing sweeps expired grants.
type PremiumService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	grants   repository.PremiumFeatureRepository
	clock    clock.Clock
}

var (
	_ IPremiumService = (*PremiumService)(nil)
	_ GrantExpirer    = (*PremiumService)(nil)
)

func NewPremiumService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	grants repository.PremiumFeatureRepository,
	clk clock.Clock,
) *PremiumService {
	if clk == nil {
		clk = clock.Real{}
	}
	return &PremiumService{
		users:    users,
		profiles: profiles,
		grants:   grants,
		clock:    clk,
	}
}

func (s *PremiumService) Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// ActivateFeature grants featureType to the user for the requested number of
// days, or the catalog default. The grant is committed before side effects
// run.
func (s *PremiumService) ActivateFeature(ctx context.Context, userID uuid.UUID, featureType models.FeatureType, req *types.ActivateFeatureRequest) (*ActivationResult, error) {
	entry, ok := LookupFeature(featureType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFeatureType, featureType)
	}
	if req == nil {
		req = &types.ActivateFeatureRequest{}
	}

	days := entry.DefaultDurationDays
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return nil, ErrInvalidDuration
		}
		days = *req.DurationDays
	}

	var settings models.FeatureSettings
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := validateFeatureSettings(featureType, settings); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	grant := &models.PremiumFeature{
		UserID:      userID,
		FeatureType: featureType,
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, days),
		Settings:    datatypes.NewJSONType(settings),
		Cost:        entry.Price,
	}

	log := logging.Ctx(ctx).With().
		Str("user_id", userID.String()).
		Str("feature_type", string(featureType)).
		Logger()

	if err := s.grants.Activate(ctx, grant, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrActiveGrantExists):
			metrics.FeatureConflicts.WithLabelValues(string(featureType)).Inc()
			return nil, ErrFeatureAlreadyActive
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to activate feature: %w", err)
	}
	metrics.FeatureActivations.WithLabelValues(string(featureType)).Inc()

	outcome := newOutcome(featureType, s.applyEffect(ctx, grant, now))
	if outcome.Failed() {
		metrics.SideEffectFailures.WithLabelValues(string(featureType), phaseApply).Inc()
		log.Warn().Err(outcome.Err).Str("grant_id", grant.ID.String()).Msg("feature activated but side effect failed")
	}

	log.Info().
		Str("grant_id", grant.ID.String()).
		Time("end_date", grant.EndDate).
		Msg("premium feature activated")
	return &ActivationResult{Grant: grant, SideEffects: outcome}, nil
}

// DeactivateFeature closes the flagged grant of featureType, expired or not,
// and reverts its side effects.
func (s *PremiumService) DeactivateFeature(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) (*DeactivationResult, error) {
	if _, ok := LookupFeature(featureType); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFeatureType, featureType)
	}

	grant, err := s.grants.FindFlagged(ctx, userID, featureType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &DeactivationResult{Deactivated: false}, nil
		}
		return nil, fmt.Errorf("failed to find grant: %w", err)
	}

	now := s.clock.Now()
	closed, err := s.grants.Deactivate(ctx, grant.ID, now)
	if err != nil {
		return nil, err
	}
	if !closed {
		// Lost a race with another deactivation or read-time expiry.
		return &DeactivationResult{Deactivated: false}, nil
	}
	grant.IsActive = false
	grant.DeactivatedAt = &now

	outcome := s.revert(ctx, grant, "manual")
	return &DeactivationResult{Deactivated: true, Grant: grant, SideEffects: &outcome}, nil
}

// GetUserFeatures lists every grant of the user. Grants still flagged past
// their end date are closed here and their side effects reverted.
func (s *PremiumService) GetUserFeatures(ctx context.Context, userID uuid.UUID) ([]FeatureStatus, error) {
	grants, err := s.grants.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	statuses := make([]FeatureStatus, 0, len(grants))
	for _, grant := range grants {
		if grant.IsActive && !grant.EffectiveActive(now) {
			s.expire(ctx, grant, now)
		}
		statuses = append(statuses, FeatureStatus{
			PremiumFeature:  grant,
			EffectiveActive: grant.EffectiveActive(now),
		})
	}
	return statuses, nil
}

func (s *PremiumService) IsFeatureActive(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) (bool, error) {
	if _, ok := LookupFeature(featureType); !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidFeatureType, featureType)
	}

	grant, err := s.grants.FindFlagged(ctx, userID, featureType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find grant: %w", err)
	}
	return grant.EffectiveActive(s.clock.Now()), nil
}

// ExpireGrants closes every expired but still flagged grant of userIDs.
// Failures on individual grants are logged; only a failed lookup is returned.
func (s *PremiumService) ExpireGrants(ctx context.Context, userIDs []uuid.UUID) error {
	now := s.clock.Now()
	grants, err := s.grants.ListExpiredFlagged(ctx, userIDs, now)
	if err != nil {
		return err
	}
	for _, grant := range grants {
		s.expire(ctx, grant, now)
	}
	return nil
}

// expire is best effort: the grant reads as inactive either way.
func (s *PremiumService) expire(ctx context.Context, grant *models.PremiumFeature, now time.Time) {
	closed, err := s.grants.Deactivate(ctx, grant.ID, now)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("grant_id", grant.ID.String()).
			Msg("failed to close expired grant")
		return
	}
	grant.IsActive = false
	if !closed {
		return
	}
	grant.DeactivatedAt = &now
	s.revert(ctx, grant, "expired")
}

func (s *PremiumService) revert(ctx context.Context, grant *models.PremiumFeature, reason string) SideEffectOutcome {
	featureType := string(grant.FeatureType)
	metrics.FeatureDeactivations.WithLabelValues(featureType, reason).Inc()

	outcome := newOutcome(grant.FeatureType, s.revertEffect(ctx, grant.UserID, grant.FeatureType))
	log := logging.Ctx(ctx).With().
		Str("user_id", grant.UserID.String()).
		Str("feature_type", featureType).
		Str("grant_id", grant.ID.String()).
		Str("reason", reason).
		Logger()
	if outcome.Failed() {
		metrics.SideEffectFailures.WithLabelValues(featureType, phaseRevert).Inc()
		log.Warn().Err(outcome.Err).Msg("feature deactivated but side effect revert failed")
	} else {
		log.Info().Msg("premium feature deactivated")
	}
	return outcome
}

func validateFeatureSettings(featureType models.FeatureType, settings models.FeatureSettings) error {
	if err := validation.ValidateStruct(settings); err != nil {
		return err
	}
	if featureType == models.FeatureTravelMode && settings.Location == "" {
		return &validation.Error{Fields: []validation.FieldError{{
			Field:   "location",
			Tag:     "required",
			Message: "location is required for travel_mode",
		}}}
	}
	return nil
}
