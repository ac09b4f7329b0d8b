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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportService_Priority(t *testing.T) {
	s := newStores(t)
	premium := newPremiumService(s)
	svc := service.NewSupportService(s.tickets, premium)
	ctx := context.Background()

	regular := testhelpers.CreateUser(t, s.db, "regular@example.com")
	vip := testhelpers.CreateUser(t, s.db, "vip@example.com")
	_, err := premium.ActivateFeature(ctx, vip.ID, models.FeaturePrioritySupport, nil)
	require.NoError(t, err)

	req := &types.CreateTicketRequest{Category: "billing", Subject: " Refund ", Description: "Charged twice"}

	normal, err := svc.CreateTicket(ctx, regular.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.TicketPriorityNormal, normal.Priority)
	assert.Equal(t, models.TicketStatusOpen, normal.Status)
	assert.Equal(t, "Refund", normal.Subject)

	high, err := svc.CreateTicket(ctx, vip.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.TicketPriorityHigh, high.Priority)

	// Once the grant has lapsed new tickets are normal again.
	s.clock.Advance(31 * 24 * time.Hour)
	lapsed, err := svc.CreateTicket(ctx, vip.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.TicketPriorityNormal, lapsed.Priority)

	tickets, err := svc.ListTickets(ctx, vip.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, high.ID, tickets[0].ID)
}

func TestSupportService_UpdateTicketStatus(t *testing.T) {
	s := newStores(t)
	svc := service.NewSupportService(s.tickets, nil)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, s.db, "ticket@example.com")

	ticket, err := svc.CreateTicket(ctx, user.ID, &types.CreateTicketRequest{Category: "technical", Subject: "Crash", Description: "App crashes"})
	require.NoError(t, err)

	updated, err := svc.UpdateTicketStatus(ctx, ticket.ID, models.TicketStatusInProgress, "looking into it")
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusInProgress, updated.Status)
	assert.Equal(t, "looking into it", updated.AdminNotes)

	_, err = svc.UpdateTicketStatus(ctx, uuid.New(), models.TicketStatusClosed, "")
	assert.ErrorIs(t, err, service.ErrTicketNotFound)
}
