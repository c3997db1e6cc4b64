package holiday

import (
	"leavehub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", handler.GetAll)
		holidays.POST("",
			middleware.RequireRole(middleware.RoleAdmin, middleware.RoleOwner),
			handler.Create,
		)
		holidays.DELETE("/:id",
			middleware.RequireRole(middleware.RoleAdmin, middleware.RoleOwner),
			handler.Delete,
		)
	}
}
