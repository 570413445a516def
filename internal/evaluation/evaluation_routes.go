package evaluation

import (
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	"github.com/aFurik/PerformanceEvaluation/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	evaluations := r.Group("/evaluations")
	evaluations.Use(middleware.AuthMiddleware())
	evaluations.Use(middleware.ContextLogger(logger))
	{
		evaluations.POST("",
			middleware.RateLimitByUser(2, 10),
			middleware.Idempotency(rdb),
			handler.Submit,
		)

		evaluations.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin),
			handler.Update,
		)

		evaluations.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin),
			handler.Delete,
		)
	}

	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	sessions.Use(middleware.ContextLogger(logger))
	{
		sessions.GET("/:id/assignments",
			middleware.RateLimitByUser(5, 20),
			handler.ListAssignments,
		)

		sessions.GET("/:id/my-evaluations",
			middleware.RateLimitByUser(5, 20),
			handler.GetMyResults,
		)

		sessions.GET("/:id/evaluations",
			middleware.RateLimitByUser(2, 10),
			middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin),
			handler.GetBySession,
		)
	}
}
