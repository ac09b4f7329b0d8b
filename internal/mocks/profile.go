package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/heartline/heartline/backend/internal/compatibility"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/service"
	"github.com/heartline/heartline/backend/internal/types"
)

type MockProfileService struct {
	mock.Mock
}

var _ service.IProfileService = (*MockProfileService)(nil)

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProfileResponse), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.ProfileResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ProfileResponse), args.Error(1)
}

type MockPersonalityService struct {
	mock.Mock
}

var _ service.IPersonalityService = (*MockPersonalityService)(nil)

func (m *MockPersonalityService) SubmitQuestionnaire(ctx context.Context, userID uuid.UUID, req *types.QuestionnaireRequest) (*models.PersonalityProfile, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PersonalityProfile), args.Error(1)
}

func (m *MockPersonalityService) GetPersonalityProfile(ctx context.Context, userID uuid.UUID) (*models.PersonalityProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PersonalityProfile), args.Error(1)
}

type MockCompatibilityService struct {
	mock.Mock
}

var _ service.ICompatibilityService = (*MockCompatibilityService)(nil)

func (m *MockCompatibilityService) ScoreCompatibility(ctx context.Context, userID, otherID uuid.UUID) (*compatibility.Result, error) {
	args := m.Called(ctx, userID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*compatibility.Result), args.Error(1)
}

func (m *MockCompatibilityService) FindMatches(ctx context.Context, userID uuid.UUID, limit, minScore int) ([]service.Match, error) {
	args := m.Called(ctx, userID, limit, minScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Match), args.Error(1)
}
