package sessionerrors

import (
	"net/http"

	"github.com/aFurik/PerformanceEvaluation/internal/shared/apperror"
)

var (
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Evaluation session not found",
		http.StatusNotFound,
	)
	ErrSessionNotActive = apperror.New(
		apperror.CodeInvalidState,
		"Evaluation session is not active",
		http.StatusConflict,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"End date must be after start date",
		http.StatusBadRequest,
	)
	ErrMissingTitle = apperror.New(
		apperror.CodeInvalidInput,
		"Session title is required",
		http.StatusBadRequest,
	)
)
