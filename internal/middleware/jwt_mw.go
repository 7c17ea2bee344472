package middleware

import (
	"net/http"
	"strings"

	"orderdesk/internal/model"
	"orderdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
	AuthNameKey = "authName"
)

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": "UNAUTHORIZED"})
}

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		role, err := model.ParseRole(claims.Role)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthRoleKey, role)
		c.Set(AuthNameKey, claims.Name)

		c.Next()
	}
}
