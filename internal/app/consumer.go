package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aFurik/PerformanceEvaluation/internal/competency"
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	"github.com/aFurik/PerformanceEvaluation/internal/evaluation"
	"github.com/aFurik/PerformanceEvaluation/internal/events"
	"github.com/aFurik/PerformanceEvaluation/internal/messaging/kafka/consumer"
	"github.com/aFurik/PerformanceEvaluation/internal/report"
	"github.com/aFurik/PerformanceEvaluation/internal/session"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer listens for evaluation changes and invalidates the cached
// report projections for the affected session.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	evaluationRepo := evaluation.NewRepository(gormDB)
	sessionRepo := session.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	competencyRepo := competency.NewRepository(gormDB)
	reportService := report.NewService(evaluationRepo, sessionRepo, employeeRepo, competencyRepo, redisClient)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.EvaluationRecordedTopic,
		GroupID:        "perfeval-report-cache",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEvaluationRecorded(ctx, reader, reportService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
