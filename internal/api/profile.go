package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heartline/heartline/backend/internal/service"
	"github.com/heartline/heartline/backend/internal/types"
)

type ProfileHandler struct {
	profileService     service.IProfileService
	personalityService service.IPersonalityService
}

func NewProfileHandler(profileService service.IProfileService, personalityService service.IPersonalityService) *ProfileHandler {
	return &ProfileHandler{
		profileService:     profileService,
		personalityService: personalityService,
	}
}

// RegisterRoutes expects router to already carry AuthMiddleware.
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.GetProfile)
	router.PUT("/profile", h.UpdateProfile)
	router.GET("/personality", h.GetPersonality)
	router.PUT("/personality", h.SubmitQuestionnaire)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetPersonality(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.personalityService.GetPersonalityProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SubmitQuestionnaire creates or replaces the caller's personality profile.
func (h *ProfileHandler) SubmitQuestionnaire(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.QuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.personalityService.SubmitQuestionnaire(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
