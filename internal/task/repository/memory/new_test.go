package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task/repository"
	"conversational-task-manager/internal/task/repository/memory"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, name := range []string{"Buy milk", "Call mom", "Read milk book"} {
		_, err := r.CreateTask(ctx, repository.CreateTaskOptions{
			ID:        string(rune('a' + i)),
			Name:      name,
			Due:       model.FixedDue(base.Add(time.Duration(i) * 24 * time.Hour)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	t.Run("duplicate", func(t *testing.T) {
		_, err := r.CreateTask(ctx, repository.CreateTaskOptions{ID: "a", Name: "x"})
		if !errors.Is(err, repository.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("list filters and pages newest first", func(t *testing.T) {
		tasks, total, err := r.ListTasks(ctx, repository.ListTasksOptions{Name: "MILK", Limit: 1})
		if err != nil {
			t.Fatalf("ListTasks: %v", err)
		}
		if total != 2 || len(tasks) != 1 || tasks[0].ID != "c" {
			t.Errorf("got total=%d tasks=%+v", total, tasks)
		}

		tasks, total, _ = r.ListTasks(ctx, repository.ListTasksOptions{Offset: 5})
		if total != 3 || len(tasks) != 0 {
			t.Errorf("offset past end: total=%d len=%d", total, len(tasks))
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		done := model.StatusDone
		got, err := r.UpdateTask(ctx, "b", model.TaskPatch{Status: &done})
		if err != nil || got.Status != model.StatusDone {
			t.Fatalf("UpdateTask = %+v, %v", got, err)
		}
		if err := r.DeleteTask(ctx, "b"); err != nil {
			t.Fatalf("DeleteTask: %v", err)
		}
		if _, err := r.GetTask(ctx, "b"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := r.UpdateTask(ctx, "b", model.TaskPatch{Status: &done}); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
