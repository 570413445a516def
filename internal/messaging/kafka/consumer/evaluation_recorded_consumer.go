package consumer

import (
	"context"
	"encoding/json"

	"github.com/aFurik/PerformanceEvaluation/internal/events"
	"github.com/aFurik/PerformanceEvaluation/internal/report"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEvaluationRecorded drops cached report projections for a session
// whenever its result set changes, so the next report read recomputes from
// committed rows. Invalidation failures are retried by not committing the
// message.
func ConsumeEvaluationRecorded(
	ctx context.Context,
	reader *kafkago.Reader,
	reportService report.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.evaluation_recorded")
	log.Info("evaluation recorded consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("evaluation recorded consumer stopped")
				return
			}
			log.Error("fetch evaluation recorded message failed", zap.Error(err))
			continue
		}

		var event events.EvaluationRecordedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode evaluation recorded event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reportService.InvalidateSessionCaches(ctx, event.SessionID); err != nil {
			log.Error("invalidate report caches failed",
				zap.String("session_id", event.SessionID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit evaluation recorded message failed", zap.Error(err))
			continue
		}

		log.Info("report caches invalidated",
			zap.String("session_id", event.SessionID),
			zap.String("event_type", event.EventType),
		)
	}
}
