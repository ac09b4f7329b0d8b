package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/heartline/heartline/backend/internal/logging"
	"github.com/heartline/heartline/backend/internal/middleware"
	"github.com/heartline/heartline/backend/internal/service"
	"github.com/heartline/heartline/backend/internal/validation"
)

// statusFor maps service errors onto HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr),
		errors.Is(err, service.ErrInvalidFeatureType),
		errors.Is(err, service.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrFeatureAlreadyActive):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body. Internal errors are logged
// and replaced with a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, middleware.ErrorResponse{Error: "internal server error"})
		return
	}

	resp := middleware.ErrorResponse{Error: err.Error()}
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Details = verr.Fields
	}
	c.JSON(status, resp)
}

// respondBindError reports a request body that failed to decode or bind.
func respondBindError(c *gin.Context, err error) {
	verr := validation.FromError(err)
	if len(verr.Fields) == 1 && verr.Fields[0].Tag == "unknown" {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid request body"})
		return
	}
	c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "validation failed", Details: verr.Fields})
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "unauthorized"})
	}
	return userID, ok
}

// uuidParam parses a path parameter or writes a 400.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
