package session

import (
	"errors"

	sessionerrors "github.com/aFurik/PerformanceEvaluation/internal/session/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sessionerrors.ErrSessionNotFound
	}

	return err
}
