package evaluationerrors

import (
	"net/http"

	"github.com/aFurik/PerformanceEvaluation/internal/shared/apperror"
)

var (
	ErrEvaluationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Evaluation result not found",
		http.StatusNotFound,
	)
	ErrSelfEvaluationNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"Self-evaluation is not allowed",
		http.StatusBadRequest,
	)
	ErrDuplicateEvaluation = apperror.New(
		apperror.CodeConflict,
		"Evaluation for this employee and competency already submitted",
		http.StatusConflict,
	)
	ErrInvalidScore = apperror.New(
		apperror.CodeInvalidInput,
		"Score must be between 1 and 5",
		http.StatusBadRequest,
	)
	ErrCommentTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"Comment must be at most 2000 characters",
		http.StatusBadRequest,
	)
	ErrInvalidEvaluationID = apperror.New(
		apperror.CodeInvalidInput,
		"Evaluation id is not a valid identifier",
		http.StatusBadRequest,
	)
)
