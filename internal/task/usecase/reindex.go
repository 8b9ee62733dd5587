package usecase

import (
	"context"
	"fmt"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
	"conversational-task-manager/internal/task/repository"
)

const reindexPageSize = 100

// Reindex upserts every stored task into the vector index. It stops at the
// first indexing error and reports how many tasks were written.
func (uc *implUseCase) Reindex(ctx context.Context, sc model.Scope) (int, error) {
	if uc.vectorRepo == nil {
		return 0, task.ErrIndexUnavailable
	}
	if err := uc.vectorRepo.EnsureCollection(ctx); err != nil {
		return 0, err
	}

	indexed := 0
	for offset := 0; ; offset += reindexPageSize {
		tasks, total, err := uc.repo.ListTasks(ctx, repository.ListTasksOptions{Limit: reindexPageSize, Offset: offset})
		if err != nil {
			return indexed, fmt.Errorf("%w: %v", task.ErrStoreUnavailable, err)
		}
		for _, t := range tasks {
			if err := uc.vectorRepo.IndexTask(ctx, t); err != nil {
				return indexed, fmt.Errorf("index task %s: %w", t.ID, err)
			}
			indexed++
		}
		if offset+reindexPageSize >= total || len(tasks) == 0 {
			break
		}
	}

	uc.l.Infof(ctx, "internal.task.usecase.Reindex: user=%s indexed=%d", sc.UserID, indexed)
	return indexed, nil
}
