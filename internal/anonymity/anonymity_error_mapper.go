package anonymity

import (
	"errors"
	"strings"

	sessionerrors "github.com/aFurik/PerformanceEvaluation/internal/session/errors"

	"github.com/jackc/pgx/v5/pgconn"
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

// isPairConflict reports whether the insert hit the unique
// (session, evaluator) constraint, i.e. a concurrent request won the race.
func isPairConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_anonymous_mappings_session_evaluator"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") &&
		strings.Contains(errMsg, "uq_anonymous_mappings_session_evaluator")
}
