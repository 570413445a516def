package session

import (
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	"github.com/aFurik/PerformanceEvaluation/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	sessions.Use(middleware.ContextLogger(logger))
	{
		sessions.GET("",
			middleware.RateLimitByUser(5, 20),
			handler.GetAll,
		)

		sessions.GET("/active",
			middleware.RateLimitByUser(5, 20),
			handler.GetActive,
		)

		sessions.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			handler.GetById,
		)

		sessions.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin),
			handler.Create,
		)

		sessions.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin),
			handler.Update,
		)

		sessions.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin),
			handler.Delete,
		)
	}
}
