package http

import (
	"errors"

	"conversational-task-manager/internal/dialogue"
)

var errInvalidBody = errors.New("invalid request body")

// mapError turns request errors into the message returned to the client.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, dialogue.ErrInvalidTracker), errors.Is(err, errUnknownRole):
		return err
	default:
		return errInvalidBody
	}
}
