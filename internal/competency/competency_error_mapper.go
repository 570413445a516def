package competency

import (
	"errors"

	competencyerrors "github.com/aFurik/PerformanceEvaluation/internal/competency/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return competencyerrors.ErrCompetencyNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503: delete blocked by the restrict FK on evaluation_results.
		if pgErr.Code == "23503" {
			return competencyerrors.ErrCompetencyInUse
		}
	}

	return err
}
