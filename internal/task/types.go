package task

import (
	"strings"
	"time"

	"conversational-task-manager/internal/model"
)

// CreateInput is the input for creating a task.
type CreateInput struct {
	Name        string
	Description string
	Due         model.Due
}

// Filter is a conjunction of optional predicates over tasks.
type Filter struct {
	Name   string        // case-insensitive substring
	Status *model.Status // exact
	Before *time.Time    // anchor strictly before
	After  *time.Time    // anchor strictly after
}

// HasDateBound reports whether Before or After is set.
func (f Filter) HasDateBound() bool {
	return f.Before != nil || f.After != nil
}

// Match applies every set predicate. Tasks without a due date only fail a
// filter that carries a date bound.
func (f Filter) Match(t model.Task) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if !f.HasDateBound() {
		return true
	}

	anchor, ok := t.Due.Anchor()
	if !ok {
		return false
	}
	if f.Before != nil && !anchor.Before(*f.Before) {
		return false
	}
	if f.After != nil && !anchor.After(*f.After) {
		return false
	}
	return true
}

// ListInput is the input for listing tasks, newest first.
type ListInput struct {
	Filter Filter
	Limit  int // 0 means no limit
	Offset int
}

// ListOutput is a page of tasks plus the number of matches before paging.
type ListOutput struct {
	Tasks []model.Task
	Total int
}

// UpdateInput applies Patch to the task with ID.
type UpdateInput struct {
	ID    string
	Patch model.TaskPatch
}

// SearchInput is the input for similarity search.
type SearchInput struct {
	Query string
	Limit int
}

// SearchHit is a task ID with its similarity score.
type SearchHit struct {
	TaskID string
	Score  float64
}

// SearchOutput holds hits ordered by score desc.
type SearchOutput struct {
	Hits []SearchHit
}
