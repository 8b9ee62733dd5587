package dialogue

import (
	"context"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/pkg/llmprovider"
)

// UseCase runs conversation turns and executes validated calls.
type UseCase interface {
	// Turn runs one dialogue turn. The returned channel yields text events,
	// at most one toolCall and a final done, and is always closed. Cancelling
	// ctx before dispatch drops the turn; a started dispatch is not undone.
	Turn(ctx context.Context, sc model.Scope, input TurnInput) <-chan Event

	// Dispatch executes a validated call against the task store. snapshot
	// is the context used for name resolution and filtering.
	Dispatch(ctx context.Context, sc model.Scope, call Call, snapshot []model.Task) (DispatchResult, error)
}

// Oracle maps a prompt to structured output. *llmprovider.Manager
// implements it.
type Oracle interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}
