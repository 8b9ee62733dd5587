package task

import (
	"context"

	"conversational-task-manager/internal/model"
)

// UseCase defines the business logic interface for the task domain.
// Every mutation is a single store call; secondary effects (vector index,
// calendar mirror) run afterwards and never fail the operation.
type UseCase interface {
	Create(ctx context.Context, sc model.Scope, input CreateInput) (model.Task, error)
	Detail(ctx context.Context, sc model.Scope, id string) (model.Task, error)
	List(ctx context.Context, sc model.Scope, input ListInput) (ListOutput, error)
	Update(ctx context.Context, sc model.Scope, input UpdateInput) (model.Task, error)
	Delete(ctx context.Context, sc model.Scope, id string) error

	// Search returns tasks ranked by similarity to a free-text query.
	Search(ctx context.Context, sc model.Scope, input SearchInput) (SearchOutput, error)

	// Reindex rebuilds the vector index from the store.
	Reindex(ctx context.Context, sc model.Scope) (int, error)
}
