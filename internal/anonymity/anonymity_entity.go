package anonymity

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousMapping is the single place where an anonymous code and an
// evaluator identity meet. Exactly one mapping may exist per
// (session, evaluator) pair; the code itself is globally unique. Rows are
// immutable after creation and disappear only when the session cascades.
type AnonymousMapping struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_anonymous_mappings_session_evaluator"`
	EvaluatorEmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_anonymous_mappings_session_evaluator"`
	Code                uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_anonymous_mappings_code"`
	CreatedAt           time.Time
}

// NewAnonymousMapping mints a mapping with a fresh random code. uuid.New
// draws from crypto/rand; predictable or sequential codes would defeat
// the anonymity boundary.
func NewAnonymousMapping(sessionID, evaluatorEmployeeID uuid.UUID) *AnonymousMapping {
	return &AnonymousMapping{
		ID:                  uuid.New(),
		SessionID:           sessionID,
		EvaluatorEmployeeID: evaluatorEmployeeID,
		Code:                uuid.New(),
		CreatedAt:           time.Now().UTC(),
	}
}
