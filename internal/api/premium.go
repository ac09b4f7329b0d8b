package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/heartline/heartline/backend/internal/middleware"
	"github.com/heartline/heartline/backend/internal/models"
	"github.com/heartline/heartline/backend/internal/service"
	"github.com/heartline/heartline/backend/internal/types"
)

type PremiumHandler struct {
	premiumService    service.IPremiumService
	activationLimiter *middleware.RateLimiter
}

// NewPremiumHandler builds the handler. A nil limiter disables activation
// rate limiting.
func NewPremiumHandler(premiumService service.IPremiumService, activationLimiter *middleware.RateLimiter) *PremiumHandler {
	return &PremiumHandler{
		premiumService:    premiumService,
		activationLimiter: activationLimiter,
	}
}

// RegisterPublicRoutes registers routes that need no authentication.
func (h *PremiumHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/premium/catalog", h.Catalog)
}

// RegisterRoutes registers the caller's own feature routes. router must
// already carry AuthMiddleware.
func (h *PremiumHandler) RegisterRoutes(router *gin.RouterGroup) {
	premium := router.Group("/premium")
	{
		premium.GET("/features", h.ListFeatures)
		premium.POST("/features/:type", h.activationLimiter.Middleware(), h.Activate)
		premium.DELETE("/features/:type", h.Deactivate)
	}
}

// RegisterAdminRoutes lets administrators manage any user's features.
// router must already carry AuthMiddleware and RequireAdmin.
func (h *PremiumHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/users/:userId/premium/features/:type", h.AdminActivate)
	router.DELETE("/users/:userId/premium/features/:type", h.AdminDeactivate)
}

func (h *PremiumHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"features": h.premiumService.Catalog()})
}

func (h *PremiumHandler) ListFeatures(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	features, err := h.premiumService.GetUserFeatures(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"features": features})
}

func (h *PremiumHandler) Activate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	h.activate(c, userID)
}

func (h *PremiumHandler) Deactivate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	h.deactivate(c, userID)
}

func (h *PremiumHandler) AdminActivate(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	h.activate(c, userID)
}

func (h *PremiumHandler) AdminDeactivate(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	h.deactivate(c, userID)
}

func (h *PremiumHandler) activate(c *gin.Context, userID uuid.UUID) {
	// The body is optional; an empty one means catalog defaults.
	var req types.ActivateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	featureType := models.FeatureType(c.Param("type"))
	result, err := h.premiumService.ActivateFeature(c.Request.Context(), userID, featureType, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// deactivate answers 200 whether or not a grant was closed; the body's
// deactivated flag tells the two apart.
func (h *PremiumHandler) deactivate(c *gin.Context, userID uuid.UUID) {
	featureType := models.FeatureType(c.Param("type"))
	result, err := h.premiumService.DeactivateFeature(c.Request.Context(), userID, featureType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
