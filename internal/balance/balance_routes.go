package balance

import (
	"leavehub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/me", middleware.RateLimitByUser(2, 10), handler.GetMine)
		balances.GET("/employees/:employeeId",
			middleware.RequireRole(middleware.RoleManager, middleware.RoleOwner, middleware.RoleAdmin),
			handler.GetByEmployee,
		)
	}
}
