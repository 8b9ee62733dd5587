package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"conversational-task-manager/internal/model"
	repo "conversational-task-manager/internal/task/repository"
	"conversational-task-manager/internal/task/repository/sqlite"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) repo.Repository {
	t.Helper()
	r, err := sqlite.New(filepath.Join(t.TempDir(), "data", "tasks.db"), &mockLogger{})
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func mustCreate(t *testing.T, r repo.Repository, opt repo.CreateTaskOptions) model.Task {
	t.Helper()
	created, err := r.CreateTask(context.Background(), opt)
	if err != nil {
		t.Fatalf("CreateTask(%s): %v", opt.ID, err)
	}
	return created
}

func TestCreateAndGet(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	rng, _ := model.RangeDue(base, base.Add(48*time.Hour))

	tests := []struct {
		name string
		opt  repo.CreateTaskOptions
	}{
		{name: "fixed", opt: repo.CreateTaskOptions{ID: "a", Name: "Dentist", Due: model.FixedDue(base), CreatedAt: base}},
		{name: "range", opt: repo.CreateTaskOptions{ID: "b", Name: "Trip", Description: "Lisbon", Due: rng, CreatedAt: base}},
		{name: "none", opt: repo.CreateTaskOptions{ID: "c", Name: "Someday", Status: model.StatusDone, CreatedAt: base}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := mustCreate(t, r, tt.opt)
			got, err := r.GetTask(ctx, tt.opt.ID)
			if err != nil {
				t.Fatalf("GetTask: %v", err)
			}
			if got.Name != created.Name || got.Description != created.Description || got.Status != created.Status {
				t.Errorf("got %+v, want %+v", got, created)
			}
			if !got.Due.Equal(tt.opt.Due) {
				t.Errorf("due = %+v, want %+v", got.Due, tt.opt.Due)
			}
			if !got.CreatedAt.Equal(base) {
				t.Errorf("createdAt = %v", got.CreatedAt)
			}
		})
	}

	t.Run("duplicate id", func(t *testing.T) {
		_, err := r.CreateTask(ctx, repo.CreateTaskOptions{ID: "a", Name: "again", CreatedAt: base})
		if !errors.Is(err, repo.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := r.GetTask(ctx, "nope"); !errors.Is(err, repo.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListTasks(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	rng, _ := model.RangeDue(base.Add(72*time.Hour), base.Add(96*time.Hour))

	mustCreate(t, r, repo.CreateTaskOptions{ID: "1", Name: "Buy milk", Due: model.FixedDue(base.Add(24 * time.Hour)), CreatedAt: base})
	mustCreate(t, r, repo.CreateTaskOptions{ID: "2", Name: "Call mom", Due: model.FixedDue(base.Add(48 * time.Hour)), Status: model.StatusDone, CreatedAt: base.Add(time.Minute)})
	mustCreate(t, r, repo.CreateTaskOptions{ID: "3", Name: "Conference", Due: rng, CreatedAt: base.Add(2 * time.Minute)})
	mustCreate(t, r, repo.CreateTaskOptions{ID: "4", Name: "Read MILK book", CreatedAt: base.Add(3 * time.Minute)})

	done := model.StatusDone
	pending := model.StatusPending
	before := base.Add(48 * time.Hour)
	after := base.Add(24 * time.Hour)

	tests := []struct {
		name      string
		opt       repo.ListTasksOptions
		wantIDs   []string
		wantTotal int
	}{
		{name: "all newest first", opt: repo.ListTasksOptions{}, wantIDs: []string{"4", "3", "2", "1"}, wantTotal: 4},
		{name: "name substring case-insensitive", opt: repo.ListTasksOptions{Name: "Milk"}, wantIDs: []string{"4", "1"}, wantTotal: 2},
		{name: "status", opt: repo.ListTasksOptions{Status: &done}, wantIDs: []string{"2"}, wantTotal: 1},
		{name: "before is exclusive", opt: repo.ListTasksOptions{Before: &before}, wantIDs: []string{"1"}, wantTotal: 1},
		{name: "after is exclusive and uses range start", opt: repo.ListTasksOptions{After: &after}, wantIDs: []string{"3", "2"}, wantTotal: 2},
		{name: "conjunction", opt: repo.ListTasksOptions{After: &after, Status: &pending}, wantIDs: []string{"3"}, wantTotal: 1},
		{name: "limit and offset", opt: repo.ListTasksOptions{Limit: 2, Offset: 1}, wantIDs: []string{"3", "2"}, wantTotal: 4},
		{name: "offset only", opt: repo.ListTasksOptions{Offset: 3}, wantIDs: []string{"1"}, wantTotal: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, total, err := r.ListTasks(ctx, tt.opt)
			if err != nil {
				t.Fatalf("ListTasks: %v", err)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
			var ids []string
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			if fmt.Sprint(ids) != fmt.Sprint(tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestUpdateTask(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	mustCreate(t, r, repo.CreateTaskOptions{ID: "1", Name: "Dentist", Description: "bring card", Due: model.FixedDue(base), CreatedAt: base})

	t.Run("range replaces fixed due", func(t *testing.T) {
		rng, _ := model.RangeDue(base, base.Add(time.Hour))
		empty := ""
		updated, err := r.UpdateTask(ctx, "1", model.TaskPatch{Due: &rng, Description: &empty})
		if err != nil {
			t.Fatalf("UpdateTask: %v", err)
		}
		got, _ := r.GetTask(ctx, "1")
		if !got.Due.Equal(rng) || !updated.Due.Equal(rng) {
			t.Errorf("due = %+v, want range", got.Due)
		}
		if _, fixed := got.Due.At(); fixed {
			t.Errorf("fixed due should be cleared")
		}
		if got.Description != "" || got.Name != "Dentist" {
			t.Errorf("unexpected task %+v", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		name := "x"
		if _, err := r.UpdateTask(ctx, "nope", model.TaskPatch{Name: &name}); !errors.Is(err, repo.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("concurrent updates are serialized", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				name := fmt.Sprintf("name-%d", i)
				if _, err := r.UpdateTask(ctx, "1", model.TaskPatch{Name: &name}); err != nil {
					t.Errorf("UpdateTask: %v", err)
				}
			}(i)
		}
		wg.Wait()
		got, _ := r.GetTask(ctx, "1")
		if got.Description != "" {
			t.Errorf("untouched fields must survive concurrent patches")
		}
	})
}

func TestDeleteTask(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	mustCreate(t, r, repo.CreateTaskOptions{ID: "1", Name: "Dentist", CreatedAt: base})

	if err := r.DeleteTask(ctx, "1"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := r.GetTask(ctx, "1"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("task should be gone, got %v", err)
	}
	if err := r.DeleteTask(ctx, "1"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	r, err := sqlite.New(path, &mockLogger{})
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	mustCreate(t, r, repo.CreateTaskOptions{ID: "1", Name: "Persist", CreatedAt: base})
	r.Close()

	r2, err := sqlite.New(path, &mockLogger{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()
	if _, err := r2.GetTask(context.Background(), "1"); err != nil {
		t.Fatalf("task lost after reopen: %v", err)
	}
}
