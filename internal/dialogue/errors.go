package dialogue

import (
	"errors"
	"fmt"
	"strings"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
)

var (
	ErrUnknownOp            = errors.New("unknown operation")
	ErrInvalidTracker       = errors.New("invalid tracker")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrOracleFailure        = errors.New("intent oracle failed")
)

// ValidationError lists the fields of a call that are missing or malformed.
// It matches task.ErrValidationFailed under errors.Is.
type ValidationError struct {
	Op     Op
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: missing or invalid %s", task.ErrValidationFailed, e.Op, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return task.ErrValidationFailed
}

// AmbiguousTargetError reports a name that matched zero or several tasks.
// It matches task.ErrTargetNotFound under errors.Is.
type AmbiguousTargetError struct {
	Name       string
	Candidates []model.Task
}

func (e *AmbiguousTargetError) Error() string {
	return fmt.Sprintf("%s: %d tasks named %q", task.ErrTargetNotFound, len(e.Candidates), e.Name)
}

func (e *AmbiguousTargetError) Unwrap() error {
	return task.ErrTargetNotFound
}
