package usecase

import (
	"context"
	"errors"
	"fmt"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
	"conversational-task-manager/internal/task/repository"
)

// Detail returns one task.
func (uc *implUseCase) Detail(ctx context.Context, sc model.Scope, id string) (model.Task, error) {
	t, err := uc.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, uc.storeError(ctx, "Detail", err)
	}
	return t, nil
}

// Update applies a patch in one store call.
func (uc *implUseCase) Update(ctx context.Context, sc model.Scope, input task.UpdateInput) (model.Task, error) {
	if input.Patch.IsEmpty() {
		return model.Task{}, fmt.Errorf("%w: %w", task.ErrValidationFailed, task.ErrEmptyPatch)
	}
	if input.Patch.Name != nil {
		name, err := validateName(*input.Patch.Name)
		if err != nil {
			return model.Task{}, err
		}
		input.Patch.Name = &name
	}

	updated, err := uc.repo.UpdateTask(ctx, input.ID, input.Patch)
	if err != nil {
		return model.Task{}, uc.storeError(ctx, "Update", err)
	}

	uc.l.Infof(ctx, "internal.task.usecase.Update: user=%s task=%s", sc.UserID, updated.ID)
	uc.syncSaved(ctx, updated)
	return updated, nil
}

// Delete removes a task.
func (uc *implUseCase) Delete(ctx context.Context, sc model.Scope, id string) error {
	if err := uc.repo.DeleteTask(ctx, id); err != nil {
		return uc.storeError(ctx, "Delete", err)
	}

	uc.l.Infof(ctx, "internal.task.usecase.Delete: user=%s task=%s", sc.UserID, id)
	uc.syncDeleted(ctx, id)
	return nil
}

// storeError maps repository failures onto domain errors.
func (uc *implUseCase) storeError(ctx context.Context, method string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return task.ErrTaskNotFound
	}
	uc.l.Errorf(ctx, "internal.task.usecase.%s: %v", method, err)
	return fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
}
