package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/service"
	"github.com/heartline/heartline/backend/internal/types"
)

type MockPremiumService struct {
	mock.Mock
}

var _ service.IPremiumService = (*MockPremiumService)(nil)

func (m *MockPremiumService) Catalog() []service.CatalogEntry {
	args := m.Called()
	return args.Get(0).([]service.CatalogEntry)
}

func (m *MockPremiumService) ActivateFeature(ctx context.Context, userID uuid.UUID, featureType models.FeatureType, req *types.ActivateFeatureRequest) (*service.ActivationResult, error) {
	args := m.Called(ctx, userID, featureType, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ActivationResult), args.Error(1)
}

func (m *MockPremiumService) DeactivateFeature(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) (*service.DeactivationResult, error) {
	args := m.Called(ctx, userID, featureType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeactivationResult), args.Error(1)
}

func (m *MockPremiumService) GetUserFeatures(ctx context.Context, userID uuid.UUID) ([]service.FeatureStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.FeatureStatus), args.Error(1)
}

func (m *MockPremiumService) IsFeatureActive(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) (bool, error) {
	args := m.Called(ctx, userID, featureType)
	return args.Bool(0), args.Error(1)
}

type MockSupportService struct {
	mock.Mock
}

var _ service.ISupportService = (*MockSupportService)(nil)

func (m *MockSupportService) CreateTicket(ctx context.Context, userID uuid.UUID, req *types.CreateTicketRequest) (*models.SupportTicket, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupportTicket), args.Error(1)
}

func (m *MockSupportService) ListTickets(ctx context.Context, userID uuid.UUID) ([]*models.SupportTicket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SupportTicket), args.Error(1)
}

func (m *MockSupportService) UpdateTicketStatus(ctx context.Context, id uuid.UUID, status, adminNotes string) (*models.SupportTicket, error) {
	args := m.Called(ctx, id, status, adminNotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupportTicket), args.Error(1)
}
