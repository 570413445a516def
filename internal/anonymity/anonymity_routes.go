package anonymity

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
		sessions.POST("/:id/anonymous-code",
			middleware.RateLimitByUser(1, 5),
			handler.GetOrCreateCode,
		)

		sessions.GET("/:id/anonymous-codes",
			middleware.RateLimitByUser(1, 5),
			middleware.RequireRoles(employee.RoleHR),
			handler.ListSessionCodes,
		)
	}
}
