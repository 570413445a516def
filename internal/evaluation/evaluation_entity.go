package evaluation

import (
	"time"

	evaluationerrors "github.com/aFurik/PerformanceEvaluation/internal/evaluation/errors"

	"github.com/google/uuid"
)

const (
	MinScore         = 1
	MaxScore         = 5
	MaxCommentLength = 2000
)

// EvaluationResult is one scored review of one employee on one competency
// within one session. The four-column unique index is the authority on
// duplicates; the service-level pre-check only exists for a friendlier
// error before the insert races.
//
// EvaluatorEmployeeID never crosses the DTO boundary. It is stored so the
// uniqueness key and the assignment view work, and for nothing else.
type EvaluationResult struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_evaluation_results_key;index:idx_evaluation_results_session"`
	EvaluatorEmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_evaluation_results_key"`
	EvaluatedEmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_evaluation_results_key;index:idx_evaluation_results_evaluated"`
	CompetencyID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_evaluation_results_key"`
	Score               int       `gorm:"not null"`
	Comment             string    `gorm:"size:2000"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewEvaluationResult validates and builds a result. Self-review is
// rejected here, at creation time only; updates never revisit it.
func NewEvaluationResult(sessionID, evaluatorID, evaluatedID, competencyID uuid.UUID, score int, comment string) (*EvaluationResult, error) {
	if evaluatorID == evaluatedID {
		return nil, evaluationerrors.ErrSelfEvaluationNotAllowed
	}
	if err := validateScoreAndComment(score, comment); err != nil {
		return nil, err
	}

	return &EvaluationResult{
		ID:                  uuid.New(),
		SessionID:           sessionID,
		EvaluatorEmployeeID: evaluatorID,
		EvaluatedEmployeeID: evaluatedID,
		CompetencyID:        competencyID,
		Score:               score,
		Comment:             comment,
		CreatedAt:           time.Now().UTC(),
	}, nil
}

// Revise replaces score and comment. The session, evaluator, evaluated and
// competency bindings and the creation timestamp are immutable.
func (e *EvaluationResult) Revise(score int, comment string) error {
	if err := validateScoreAndComment(score, comment); err != nil {
		return err
	}

	e.Score = score
	e.Comment = comment
	return nil
}

func validateScoreAndComment(score int, comment string) error {
	if score < MinScore || score > MaxScore {
		return evaluationerrors.ErrInvalidScore
	}
	if len(comment) > MaxCommentLength {
		return evaluationerrors.ErrCommentTooLong
	}
	return nil
}
