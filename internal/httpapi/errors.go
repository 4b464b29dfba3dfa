package httpapi

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/mirror/internal/app"
	"github.com/alexanderramin/mirror/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorBody{Error: code, Message: message})
}

// statusFor maps service errors onto HTTP status codes and stable codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND"
	case errors.Is(err, app.ErrViolationNotFound):
		return http.StatusNotFound, "VIOLATION_NOT_FOUND"
	case errors.Is(err, app.ErrNoPendingTermination):
		return http.StatusNotFound, "NO_PENDING_TERMINATION"
	case errors.Is(err, app.ErrTrialNotStarted):
		return http.StatusConflict, "TRIAL_NOT_STARTED"
	case errors.Is(err, domain.ErrAlreadyResolved):
		return http.StatusConflict, "ALREADY_RESOLVED"
	case errors.Is(err, domain.ErrInvalidChoice), errors.Is(err, domain.ErrInvalidResolution):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, app.ErrScanInProgress):
		return http.StatusLocked, "SCAN_IN_PROGRESS"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (h *handler) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		msg = "internal error"
	}
	abort(c, status, code, msg)
}
