package notification

import (
	"leavehub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", middleware.RateLimitByUser(2, 10), handler.List)
		notifications.PATCH("/:id/read", handler.MarkRead)
	}
}
