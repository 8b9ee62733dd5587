package usecase

import (
	"context"
	"fmt"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
	"conversational-task-manager/internal/task/repository"
)

// Create stores a new pending task.
func (uc *implUseCase) Create(ctx context.Context, sc model.Scope, input task.CreateInput) (model.Task, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return model.Task{}, err
	}

	created, err := uc.repo.CreateTask(ctx, repository.CreateTaskOptions{
		ID:          uc.newID(),
		Name:        name,
		Description: input.Description,
		Due:         input.Due,
		Status:      model.StatusPending,
		CreatedAt:   uc.now().UTC(),
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.task.usecase.Create: user=%s: %v", sc.UserID, err)
		return model.Task{}, fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
	}

	uc.l.Infof(ctx, "internal.task.usecase.Create: user=%s task=%s due=%s", sc.UserID, created.ID, created.Due.Kind())
	uc.syncSaved(ctx, created)
	return created, nil
}
