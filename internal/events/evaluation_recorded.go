package events

import "time"

const EvaluationRecordedTopic = "perfeval.evaluation.recorded.v1"

const (
	EvaluationSubmitted = "evaluation.submitted"
	EvaluationUpdated   = "evaluation.updated"
	EvaluationDeleted   = "evaluation.deleted"
)

// EvaluationRecordedEvent announces that the result set of a session
// changed. It carries no evaluator identity; consumers only need to know
// which aggregates went stale.
type EvaluationRecordedEvent struct {
	EventType           string    `json:"event_type"`
	EvaluationID        string    `json:"evaluation_id"`
	SessionID           string    `json:"session_id"`
	EvaluatedEmployeeID string    `json:"evaluated_employee_id"`
	CompetencyID        string    `json:"competency_id"`
	OccurredAt          time.Time `json:"occurred_at"`
}
