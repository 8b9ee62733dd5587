package datemath

import (
	"errors"
	"time"
)

var (
	ErrEmpty        = errors.New("date value is empty")
	ErrUnrecognized = errors.New("unrecognized date expression")
)

// Result holds a resolved date. IsAllDay is set when the input named a day
// without a clock time.
type Result struct {
	Time     time.Time
	IsAllDay bool
}
