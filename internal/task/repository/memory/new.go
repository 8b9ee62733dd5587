package memory

import (
	"context"
	"sort"
	"sync"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
	"conversational-task-manager/internal/task/repository"
)

type implRepository struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
}

// New returns an empty in-process store. Data is lost on exit.
func New() repository.Repository {
	return &implRepository{tasks: make(map[string]model.Task)}
}

func (r *implRepository) CreateTask(ctx context.Context, opt repository.CreateTaskOptions) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[opt.ID]; exists {
		return model.Task{}, repository.ErrDuplicate
	}
	status := opt.Status
	if status == "" {
		status = model.StatusPending
	}
	t := model.Task{
		ID:          opt.ID,
		Name:        opt.Name,
		Description: opt.Description,
		Due:         opt.Due,
		Status:      status,
		CreatedAt:   opt.CreatedAt,
	}
	r.tasks[t.ID] = t
	return t, nil
}

func (r *implRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, repository.ErrNotFound
	}
	return t, nil
}

func (r *implRepository) ListTasks(ctx context.Context, opt repository.ListTasksOptions) ([]model.Task, int, error) {
	filter := task.Filter{
		Name:   opt.Name,
		Status: opt.Status,
		Before: opt.Before,
		After:  opt.After,
	}

	r.mu.RLock()
	matched := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if filter.Match(t) {
			matched = append(matched, t)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if opt.Offset >= total {
		return []model.Task{}, total, nil
	}
	matched = matched[opt.Offset:]
	if opt.Limit > 0 && opt.Limit < len(matched) {
		matched = matched[:opt.Limit]
	}
	return matched, total, nil
}

func (r *implRepository) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, repository.ErrNotFound
	}
	t = t.Apply(patch)
	r.tasks[id] = t
	return t, nil
}

func (r *implRepository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *implRepository) Close() error { return nil }
