package competencyerrors

import (
	"net/http"

	"github.com/aFurik/PerformanceEvaluation/internal/shared/apperror"
)

var (
	ErrCompetencyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Competency not found",
		http.StatusNotFound,
	)
	ErrCompetencyInUse = apperror.New(
		apperror.CodeConflict,
		"Competency is referenced by existing evaluations and cannot be deleted",
		http.StatusConflict,
	)
	ErrInvalidWeight = apperror.New(
		apperror.CodeInvalidInput,
		"Weight must be between 1 and 100",
		http.StatusBadRequest,
	)
	ErrMissingName = apperror.New(
		apperror.CodeInvalidInput,
		"Competency name is required",
		http.StatusBadRequest,
	)
)
