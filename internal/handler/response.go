package handler

import (
	"errors"
	"net/http"

	"orderdesk/internal/middleware"
	"orderdesk/internal/model"
	"orderdesk/internal/repository"
	"orderdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Stable error codes returned next to the message
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeConflict           = "CONFLICT"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidTarget      = "INVALID_TARGET"
	CodeInvalidRole        = "INVALID_ROLE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUnavailable        = "UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, msg string) {
	abortJSON(c, http.StatusBadRequest, CodeValidation, msg)
}

// respondError maps a service error to its status and code. Unexpected
// errors are logged with their cause and answered with a generic message.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abortJSON(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, service.ErrDuplicateEmail):
		abortJSON(c, http.StatusBadRequest, CodeDuplicateEmail, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		abortJSON(c, http.StatusUnauthorized, CodeInvalidCredentials, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrUserNotFound):
		abortJSON(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		abortJSON(c, http.StatusBadRequest, CodeInvalidTransition, err.Error())
	case errors.Is(err, service.ErrInvalidStatus):
		abortJSON(c, http.StatusBadRequest, CodeInvalidStatus, err.Error())
	case errors.Is(err, service.ErrStatusConflict):
		abortJSON(c, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, service.ErrForbidden):
		abortJSON(c, http.StatusForbidden, CodeForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTarget):
		abortJSON(c, http.StatusForbidden, CodeInvalidTarget, err.Error())
	case errors.Is(err, service.ErrInvalidRole):
		abortJSON(c, http.StatusBadRequest, CodeInvalidRole, err.Error())
	case errors.Is(err, repository.ErrUnavailable):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("storage unavailable")
		abortJSON(c, http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		abortJSON(c, http.StatusInternalServerError, CodeInternal, fallback)
	}
	_ = c.Error(err)
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (string, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// Helper to get authenticated user role from context
func getAuthUserRole(c *gin.Context) (model.Role, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleVal.(model.Role)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}
