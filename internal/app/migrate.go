package app

import (
	"github.com/aFurik/PerformanceEvaluation/internal/anonymity"
	"github.com/aFurik/PerformanceEvaluation/internal/auth"
	"github.com/aFurik/PerformanceEvaluation/internal/competency"
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	"github.com/aFurik/PerformanceEvaluation/internal/evaluation"
	"github.com/aFurik/PerformanceEvaluation/internal/session"

	"gorm.io/gorm"
)

// migrate applies the schema. Sessions own their results and mappings, so
// those foreign keys cascade; competencies are restricted while any result
// references them.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&employee.Employee{},
		&competency.Competency{},
		&session.EvaluationSession{},
		&anonymity.AnonymousMapping{},
		&evaluation.EvaluationResult{},
		&auth.Account{},
	); err != nil {
		return err
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id UUID PRIMARY KEY,
			request_id TEXT,
			aggregate_type TEXT NOT NULL,
			aggregate_id UUID NOT NULL,
			event_type TEXT NOT NULL,
			topic TEXT NOT NULL,
			payload JSONB NOT NULL,
			status TEXT NOT NULL,
			retry_count INT NOT NULL DEFAULT 0,
			error_message TEXT,
			next_retry_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`DO $$ BEGIN
			ALTER TABLE anonymous_mappings
				ADD CONSTRAINT fk_anonymous_mappings_session
				FOREIGN KEY (session_id) REFERENCES evaluation_sessions(id) ON DELETE CASCADE;
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
			ALTER TABLE evaluation_results
				ADD CONSTRAINT fk_evaluation_results_session
				FOREIGN KEY (session_id) REFERENCES evaluation_sessions(id) ON DELETE CASCADE;
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
			ALTER TABLE evaluation_results
				ADD CONSTRAINT fk_evaluation_results_competency
				FOREIGN KEY (competency_id) REFERENCES competencies(id) ON DELETE RESTRICT;
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
