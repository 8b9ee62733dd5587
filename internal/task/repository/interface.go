package repository

import (
	"context"

	"conversational-task-manager/internal/model"
)

// Repository is the authoritative task store.
type Repository interface {
	CreateTask(ctx context.Context, opt CreateTaskOptions) (model.Task, error)
	GetTask(ctx context.Context, id string) (model.Task, error)
	ListTasks(ctx context.Context, opt ListTasksOptions) ([]model.Task, int, error)
	// UpdateTask reads, patches and writes the task in one transaction.
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	Close() error
}

// VectorRepository keeps task embeddings for similarity search (Qdrant).
type VectorRepository interface {
	EnsureCollection(ctx context.Context) error
	IndexTask(ctx context.Context, task model.Task) error
	SearchTasks(ctx context.Context, opt SearchTasksOptions) ([]SearchResult, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// CalendarRepository mirrors dated tasks as calendar events.
type CalendarRepository interface {
	UpsertTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, taskID string) error
}

// SearchResult is a similarity hit.
type SearchResult struct {
	TaskID string
	Score  float64
}
