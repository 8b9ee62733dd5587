package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"conversational-task-manager/internal/task"
	"conversational-task-manager/pkg/response"
)

var (
	errDueConflict  = errors.New("dueAt, range and clearDue are mutually exclusive")
	errInvalidDate  = errors.New("dates must be RFC 3339 or YYYY-MM-DD")
	errInvalidRange = errors.New("range start must not be after its end")
	errMissingID    = errors.New("id is required")
)

// writeError translates use-case errors into response envelopes. Request
// errors from binding and validate go straight to response.Error.
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, task.ErrTaskNotFound), errors.Is(err, task.ErrTargetNotFound):
		response.NotFound(c, task.ErrTaskNotFound)
	case errors.Is(err, task.ErrValidationFailed),
		errors.Is(err, task.ErrEmptyPatch),
		errors.Is(err, task.ErrEmptyQuery):
		response.Error(c, err, nil)
	case errors.Is(err, task.ErrStoreUnavailable), errors.Is(err, task.ErrIndexUnavailable):
		response.ServiceUnavailable(c, task.ErrStoreUnavailable)
	default:
		response.InternalError(c, err)
	}
}
