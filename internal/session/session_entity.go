package session

import (
	"strings"
	"time"

	sessionerrors "github.com/aFurik/PerformanceEvaluation/internal/session/errors"

	"github.com/google/uuid"
)

type EvaluationSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"size:200;not null"`
	StartDate time.Time `gorm:"not null;index:idx_sessions_window"`
	EndDate   time.Time `gorm:"not null;index:idx_sessions_window"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEvaluationSession validates and builds a session window.
func NewEvaluationSession(title string, startDate, endDate time.Time, createdBy uuid.UUID) (*EvaluationSession, error) {
	s := &EvaluationSession{ID: uuid.New(), CreatedBy: createdBy, CreatedAt: time.Now().UTC()}
	if err := s.apply(title, startDate, endDate); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *EvaluationSession) UpdateInfo(title string, startDate, endDate time.Time) error {
	return s.apply(title, startDate, endDate)
}

func (s *EvaluationSession) apply(title string, startDate, endDate time.Time) error {
	if strings.TrimSpace(title) == "" {
		return sessionerrors.ErrMissingTitle
	}
	if !endDate.After(startDate) {
		return sessionerrors.ErrInvalidDateRange
	}

	s.Title = title
	s.StartDate = startDate
	s.EndDate = endDate
	return nil
}

// IsActiveAt is the derived activity predicate. Activity is never stored;
// it is evaluated against the injected clock at the moment of each check.
func (s *EvaluationSession) IsActiveAt(now time.Time) bool {
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}
