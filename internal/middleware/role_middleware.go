package middleware

import (
	"net/http"

	"leavehub/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

// RequireRole guards a route with the flat role model supplied by the
// identity token. Approver routes use RequireRole(RoleManager, RoleOwner).
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
