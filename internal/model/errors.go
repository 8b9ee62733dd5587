package model

import "errors"

var (
	ErrInvalidRange   = errors.New("range start is after end")
	ErrConflictingDue = errors.New("dueAt and range are mutually exclusive")
	ErrInvalidStatus  = errors.New("status must be pending or done")
)
