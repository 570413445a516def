package competency

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
	competencies := r.Group("/competencies")
	competencies.Use(middleware.AuthMiddleware())
	competencies.Use(middleware.ContextLogger(logger))
	{
		competencies.GET("",
			middleware.RateLimitByUser(5, 20),
			handler.GetAll,
		)

		competencies.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			handler.GetById,
		)

		competencies.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin),
			handler.Create,
		)

		competencies.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin),
			handler.Update,
		)

		competencies.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin),
			handler.Delete,
		)
	}
}
