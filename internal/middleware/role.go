package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lodging/internal/pkg/response"
)

// RequireRole lets the request through only when the token role is one of
// the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role.(string) == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// StaffOnly gates the tenant back-office endpoints.
func StaffOnly() gin.HandlerFunc {
	return RequireRole("staff", "admin")
}
