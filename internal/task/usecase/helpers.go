package usecase

import (
	"context"
	"fmt"
	"strings"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
)

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", task.ErrValidationFailed)
	}
	return name, nil
}

// syncSaved refreshes the vector index and calendar mirror after a store
// write. Failures are logged; the store stays authoritative.
func (uc *implUseCase) syncSaved(ctx context.Context, t model.Task) {
	if uc.vectorRepo != nil {
		if err := uc.vectorRepo.IndexTask(ctx, t); err != nil {
			uc.l.Warnf(ctx, "internal.task.usecase.syncSaved: index task %s: %v", t.ID, err)
		}
	}
	if uc.calendarRepo != nil {
		if err := uc.calendarRepo.UpsertTask(ctx, t); err != nil {
			uc.l.Warnf(ctx, "internal.task.usecase.syncSaved: mirror task %s: %v", t.ID, err)
		}
	}
}

func (uc *implUseCase) syncDeleted(ctx context.Context, id string) {
	if uc.vectorRepo != nil {
		if err := uc.vectorRepo.DeleteTask(ctx, id); err != nil {
			uc.l.Warnf(ctx, "internal.task.usecase.syncDeleted: unindex task %s: %v", id, err)
		}
	}
	if uc.calendarRepo != nil {
		if err := uc.calendarRepo.DeleteTask(ctx, id); err != nil {
			uc.l.Warnf(ctx, "internal.task.usecase.syncDeleted: unmirror task %s: %v", id, err)
		}
	}
}
