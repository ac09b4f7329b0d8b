package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/logging"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/repository"
	"github.com/heartline/heartline/backend/internal/types"
)

// FeatureChecker answers whether a premium feature is in effect for a user.
type FeatureChecker interface {
	IsFeatureActive(ctx context.Context, userID uuid.UUID, featureType models.FeatureType) (bool, error)
}

type SupportService struct {
	tickets  repository.SupportTicketRepository
	features FeatureChecker
}

var _ ISupportService = (*SupportService)(nil)

func NewSupportService(tickets repository.SupportTicketRepository, features FeatureChecker) *SupportService {
	return &SupportService{
		tickets:  tickets,
		features: features,
	}
}

// CreateTicket opens a ticket. Users holding priority_support get high priority.
func (s *SupportService) CreateTicket(ctx context.Context, userID uuid.UUID, req *types.CreateTicketRequest) (*models.SupportTicket, error) {
	priority := models.TicketPriorityNormal
	if s.features != nil {
		active, err := s.features.IsFeatureActive(ctx, userID, models.FeaturePrioritySupport)
		if err != nil {
			// Fall back to normal priority rather than refusing the ticket.
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Msg("failed to check priority support")
		} else if active {
			priority = models.TicketPriorityHigh
		}
	}

	ticket := &models.SupportTicket{
		UserID:      userID,
		Category:    req.Category,
		Subject:     strings.TrimSpace(req.Subject),
		Description: strings.TrimSpace(req.Description),
		Priority:    priority,
		Status:      models.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("ticket_id", ticket.ID.String()).
		Str("priority", priority).
		Msg("support ticket created")
	return ticket, nil
}

func (s *SupportService) ListTickets(ctx context.Context, userID uuid.UUID) ([]*models.SupportTicket, error) {
	return s.tickets.ListByUser(ctx, userID)
}

func (s *SupportService) UpdateTicketStatus(ctx context.Context, id uuid.UUID, status, adminNotes string) (*models.SupportTicket, error) {
	if err := s.tickets.UpdateStatus(ctx, id, status, adminNotes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload support ticket: %w", err)
	}
	return ticket, nil
}
