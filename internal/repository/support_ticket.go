package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartline/heartline/backend/internal/models"
	"gorm.io/gorm"
)

type GormSupportTicketRepository struct {
	db *gorm.DB
}

var _ SupportTicketRepository = (*GormSupportTicketRepository)(nil)

func NewSupportTicketRepository(db *gorm.DB) *GormSupportTicketRepository {
	return &GormSupportTicketRepository{db: db}
}

func (r *GormSupportTicketRepository) Create(ctx context.Context, ticket *models.SupportTicket) error {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return fmt.Errorf("failed to create support ticket: %w", err)
	}
	return nil
}

func (r *GormSupportTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

// ListByUser returns high priority tickets first, newest first within a priority.
func (r *GormSupportTicketRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SupportTicket, error) {
	var tickets []*models.SupportTicket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(fmt.Sprintf("CASE WHEN priority = '%s' THEN 0 ELSE 1 END", models.TicketPriorityHigh)).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list support tickets: %w", err)
	}
	return tickets, nil
}

func (r *GormSupportTicketRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, adminNotes string) error {
	updates := map[string]interface{}{"status": status}
	if adminNotes != "" {
		updates["admin_notes"] = adminNotes
	}

	result := r.db.WithContext(ctx).Model(&models.SupportTicket{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update support ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
