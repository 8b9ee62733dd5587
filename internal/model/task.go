package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// ParseStatus accepts "pending" or "done" in any case. Empty means pending.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusPending:
		return StatusPending, nil
	case StatusDone:
		return StatusDone, nil
	}
	return "", ErrInvalidStatus
}

// Task is the managed entity. ID and CreatedAt never change after creation.
type Task struct {
	ID          string
	Name        string
	Description string
	Due         Due
	Status      Status
	CreatedAt   time.Time
}

// TaskPatch is a partial update. Nil fields are left untouched.
// Due replaces the whole due union, so setting a fixed instant drops a range
// and the other way round; NoDue clears it.
type TaskPatch struct {
	Name        *string
	Description *string
	Status      *Status
	Due         *Due
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil && p.Due == nil
}

// Apply returns a copy of t with p applied.
func (t Task) Apply(p TaskPatch) Task {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Due != nil {
		t.Due = *p.Due
	}
	return t
}

type taskJSON struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	Range       *TimeRange `json:"range,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// MarshalJSON flattens Due into dueAt / range.
func (t Task) MarshalJSON() ([]byte, error) {
	out := taskJSON{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
	out.DueAt, out.Range = t.Due.wire()
	return json.Marshal(out)
}

// UnmarshalJSON rejects payloads carrying both dueAt and range.
func (t *Task) UnmarshalJSON(data []byte) error {
	var in taskJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	due, err := dueFromWire(in.DueAt, in.Range)
	if err != nil {
		return err
	}
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	*t = Task{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Due:         due,
		Status:      status,
		CreatedAt:   in.CreatedAt,
	}
	return nil
}
