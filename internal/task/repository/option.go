package repository

import (
	"time"

	"conversational-task-manager/internal/model"
)

// CreateTaskOptions holds the fields of a new task. The store does not
// generate IDs or timestamps.
type CreateTaskOptions struct {
	ID          string
	Name        string
	Description string
	Due         model.Due
	Status      model.Status
	CreatedAt   time.Time
}

// ListTasksOptions selects tasks, newest first.
type ListTasksOptions struct {
	Name   string        // case-insensitive substring
	Status *model.Status // exact match
	Before *time.Time    // anchor strictly before
	After  *time.Time    // anchor strictly after
	Limit  int           // 0 means no limit
	Offset int
}

// SearchTasksOptions defines search parameters.
type SearchTasksOptions struct {
	Query string
	Limit int
}
