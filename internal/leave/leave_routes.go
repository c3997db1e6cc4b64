package leave

import (
	"leavehub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", handler.GetAll)
		leaves.GET("/:id", handler.GetByID)
		leaves.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.DELETE("/:id", handler.Cancel)
		leaves.POST("/attachments/sign", handler.SignAttachment)
		leaves.POST("/:id/approve",
			middleware.RequireRole(middleware.RoleManager, middleware.RoleOwner),
			handler.Approve,
		)
		leaves.POST("/:id/decline",
			middleware.RequireRole(middleware.RoleManager, middleware.RoleOwner),
			handler.Decline,
		)
	}
}
