package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heartline/heartline/backend/internal/service"
	"github.com/heartline/heartline/backend/internal/types"
)

type SupportHandler struct {
	supportService service.ISupportService
}

func NewSupportHandler(supportService service.ISupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

func (h *SupportHandler) RegisterRoutes(router *gin.RouterGroup) {
	tickets := router.Group("/support/tickets")
	{
		tickets.GET("", h.ListTickets)
		tickets.POST("", h.CreateTicket)
	}
}

// RegisterAdminRoutes expects router to carry AuthMiddleware and RequireAdmin.
func (h *SupportHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.PATCH("/support/tickets/:id", h.UpdateTicketStatus)
}

func (h *SupportHandler) CreateTicket(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ticket, err := h.supportService.CreateTicket(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *SupportHandler) ListTickets(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tickets, err := h.supportService.ListTickets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func (h *SupportHandler) UpdateTicketStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ticket, err := h.supportService.UpdateTicketStatus(c.Request.Context(), id, req.Status, req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
