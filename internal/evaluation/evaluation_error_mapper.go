package evaluation

import (
	"errors"

	evaluationerrors "github.com/aFurik/PerformanceEvaluation/internal/evaluation/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return evaluationerrors.ErrEvaluationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_evaluation_results_key":
				// The pre-insert duplicate check raced another submission;
				// the constraint settled it.
				return evaluationerrors.ErrDuplicateEvaluation
			}
		}
	}

	return err
}
