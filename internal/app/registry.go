package app

import (
	"database/sql"

	"github.com/aFurik/PerformanceEvaluation/internal/anonymity"
	"github.com/aFurik/PerformanceEvaluation/internal/auth"
	"github.com/aFurik/PerformanceEvaluation/internal/competency"
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	"github.com/aFurik/PerformanceEvaluation/internal/evaluation"
	"github.com/aFurik/PerformanceEvaluation/internal/messaging/kafka"
	"github.com/aFurik/PerformanceEvaluation/internal/report"
	"github.com/aFurik/PerformanceEvaluation/internal/session"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/clock"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()
	clk := clock.System()

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	competencyRepo := competency.NewRepository(gormDB)
	sessionRepo := session.NewRepository(gormDB)
	anonymityRepo := anonymity.NewRepository(gormDB)
	evaluationRepo := evaluation.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(authRepo, employeeRepo)
	employeeService := employee.NewService(db, employeeRepo, rdb)
	competencyService := competency.NewService(db, competencyRepo)
	sessionService := session.NewService(db, sessionRepo, clk)
	anonymityService := anonymity.NewService(anonymityRepo, sessionRepo)
	evaluationService := evaluation.NewServiceWithOutbox(
		db,
		evaluationRepo,
		anonymityService,
		sessionRepo,
		employeeRepo,
		competencyRepo,
		outboxRepo,
		clk,
	)
	reportService := report.NewService(evaluationRepo, sessionRepo, employeeRepo, competencyRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	competencyHandler := competency.NewHandler(competencyService)
	sessionHandler := session.NewHandler(sessionService)
	anonymityHandler := anonymity.NewHandler(anonymityService)
	evaluationHandler := evaluation.NewHandlerWithRedis(evaluationService, rdb)
	reportHandler := report.NewHandler(reportService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler, logger)
		competency.RegisterRoutes(api, competencyHandler, logger)
		session.RegisterRoutes(api, sessionHandler, logger)
		anonymity.RegisterRoutes(api, anonymityHandler, logger)
		evaluation.RegisterRoutes(api, evaluationHandler, rdb, logger)
		report.RegisterRoutes(api, reportHandler, logger)
	}

	return nil
}
