package anonymity

import (
	"net/http"

	"github.com/aFurik/PerformanceEvaluation/internal/shared/apperror"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("anonymity.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("anonymity.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("anonymity request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetOrCreateCode issues (or re-issues) the caller's anonymous code for a
// session. The evaluator is always the authenticated employee; a client
// cannot request a code on someone else's behalf.
func (h *Handler) GetOrCreateCode(c *gin.Context) {
	sessionID := c.Param("id")
	evaluatorID := c.GetString("employee_id")

	resp, err := h.service.GetOrCreateCode(c.Request.Context(), sessionID, evaluatorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListSessionCodes(c *gin.Context) {
	resp, err := h.service.ListSessionCodes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
