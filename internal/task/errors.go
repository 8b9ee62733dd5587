package task

import "errors"

// Domain-specific errors for the task package.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrTargetNotFound   = errors.New("target task not found")
	ErrStoreUnavailable = errors.New("task store unavailable")
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmptyQuery       = errors.New("search query is empty")
	ErrEmptyPatch       = errors.New("patch changes nothing")
	ErrIndexUnavailable = errors.New("vector index is not configured")
)
