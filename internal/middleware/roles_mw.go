package middleware

import (
	"net/http"

	"orderdesk/internal/model"

	"github.com/gin-gonic/gin"
)

func forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg, "code": "FORBIDDEN"})
}

// RoleMiddleware creates a middleware to check for specific user roles
func RoleMiddleware(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			forbidden(c, "Role not found in token, ensure JWT middleware runs first")
			return
		}

		userRole, ok := roleVal.(model.Role)
		if !ok {
			forbidden(c, "Invalid role type in token")
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			forbidden(c, "You do not have permission to access this resource")
			return
		}

		c.Next()
	}
}

// OwnerMiddleware admits only the Owner
func OwnerMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleOwner)
}
