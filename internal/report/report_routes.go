package report

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
	reports := r.Group("/reports/sessions/:id")
	reports.Use(middleware.AuthMiddleware())
	reports.Use(middleware.ContextLogger(logger))
	reports.Use(middleware.RequireRoles(employee.RoleHR, employee.RoleAdmin))
	{
		reports.GET("/summary",
			middleware.RateLimitByUser(2, 10),
			handler.SessionSummary,
		)

		reports.GET("/employees/:employeeId",
			middleware.RateLimitByUser(2, 10),
			handler.EmployeeReport,
		)

		reports.GET("/competencies",
			middleware.RateLimitByUser(2, 10),
			handler.CompetencyAnalysis,
		)

		reports.GET("/departments/:department",
			middleware.RateLimitByUser(2, 10),
			handler.DepartmentReport,
		)

		reports.GET("/progress",
			middleware.RateLimitByUser(2, 10),
			handler.EvaluationSummaries,
		)
	}
}
