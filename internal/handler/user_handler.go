package handler

import (
	"net/http"

	"orderdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the personnel list and role changes
type UserHandler struct {
	service service.PersonnelService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.PersonnelService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListPersonnel(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	actorID, err := getAuthUserID(c)
	if err != nil {
		abortJSON(c, http.StatusUnauthorized, CodeUnauthorized, err.Error())
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.service.ChangeRole(c.Request.Context(), actorID, c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err, "Failed to change role")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated",
		"userId":  user.ID,
		"role":    user.Role,
	})
}

// RegisterUserRoutes registers personnel routes. Role changes also pass
// ownerMW; the service re-checks the actor against storage.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, ownerMW gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authMW)
	{
		users.GET("", h.ListUsers)
		users.PUT("/:id/role", ownerMW, h.ChangeRole)
	}
}
