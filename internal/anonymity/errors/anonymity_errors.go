package anonymityerrors

import (
	"net/http"

	"github.com/aFurik/PerformanceEvaluation/internal/shared/apperror"
)

var (
	ErrInvalidAnonymousCode = apperror.New(
		apperror.CodeUnauthorized,
		"Anonymous code is not recognized",
		http.StatusUnauthorized,
	)
	ErrCodeSessionMismatch = apperror.New(
		apperror.CodeForbidden,
		"Anonymous code does not belong to this session",
		http.StatusForbidden,
	)
	ErrInvalidEvaluatorID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid evaluator ID",
		http.StatusBadRequest,
	)
	ErrInvalidSessionID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid session ID",
		http.StatusBadRequest,
	)
)
