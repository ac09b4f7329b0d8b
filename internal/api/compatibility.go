package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/heartline/heartline/backend/internal/middleware"
	"github.com/heartline/heartline/backend/internal/service"
)

type CompatibilityHandler struct {
	compatibilityService service.ICompatibilityService
}

func NewCompatibilityHandler(compatibilityService service.ICompatibilityService) *CompatibilityHandler {
	return &CompatibilityHandler{compatibilityService: compatibilityService}
}

func (h *CompatibilityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/compatibility/:userId", h.GetScore)
	router.GET("/matches", h.FindMatches)
}

// GetScore scores the caller against another user from the caller's side.
func (h *CompatibilityHandler) GetScore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}

	result, err := h.compatibilityService.ScoreCompatibility(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CompatibilityHandler) FindMatches(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit, err := queryInt(c, "limit", service.DefaultMatchLimit)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "limit must be a non-negative integer"})
		return
	}
	minScore, err := queryInt(c, "min_score", 0)
	if err != nil || minScore < 0 || minScore > 100 {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "min_score must be an integer between 0 and 100"})
		return
	}

	matches, err := h.compatibilityService.FindMatches(c.Request.Context(), userID, limit, minScore)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
