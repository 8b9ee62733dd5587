package usecase

import (
	"context"
	"fmt"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
	"conversational-task-manager/internal/task/repository"
)

// List returns tasks matching the filter, newest first.
func (uc *implUseCase) List(ctx context.Context, sc model.Scope, input task.ListInput) (task.ListOutput, error) {
	if input.Limit < 0 || input.Offset < 0 {
		return task.ListOutput{}, fmt.Errorf("%w: limit and offset must not be negative", task.ErrValidationFailed)
	}

	tasks, total, err := uc.repo.ListTasks(ctx, repository.ListTasksOptions{
		Name:   input.Filter.Name,
		Status: input.Filter.Status,
		Before: input.Filter.Before,
		After:  input.Filter.After,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.task.usecase.List: user=%s: %v", sc.UserID, err)
		return task.ListOutput{}, fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
	}

	return task.ListOutput{Tasks: tasks, Total: total}, nil
}
