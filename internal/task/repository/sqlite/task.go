package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"conversational-task-manager/internal/model"
	repo "conversational-task-manager/internal/task/repository"
)

// CreateTask inserts a new task row.
func (r *implRepository) CreateTask(ctx context.Context, opt repo.CreateTaskOptions) (model.Task, error) {
	const query = `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	dueAt, start, end := dueColumns(opt.Due)
	status := opt.Status
	if status == "" {
		status = model.StatusPending
	}

	_, err := r.db.ExecContext(ctx, query,
		opt.ID, opt.Name, opt.Description, dueAt, start, end, string(status), opt.CreatedAt.UnixNano(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return model.Task{}, repo.ErrDuplicate
		}
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateTask"), err)
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}

	return model.Task{
		ID:          opt.ID,
		Name:        opt.Name,
		Description: opt.Description,
		Due:         opt.Due,
		Status:      status,
		CreatedAt:   fromNanos(opt.CreatedAt.UnixNano()),
	}, nil
}

// GetTask returns the task with id or repo.ErrNotFound.
func (r *implRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	return r.getTask(ctx, r.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *implRepository) getTask(ctx context.Context, q querier, id string) (model.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, repo.ErrNotFound
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetTask"), err)
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasks returns a page of tasks and the number of matches before paging.
func (r *implRepository) ListTasks(ctx context.Context, opt repo.ListTasksOptions) ([]model.Task, int, error) {
	where, args := r.buildWhere(opt)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tasks WHERE %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.l.Errorf(ctx, "%s count: %v", r.dsn("ListTasks"), err)
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	page, pageArgs := r.buildPage(opt)
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE %s %s", taskColumns, where, page)
	rows, err := r.db.QueryContext(ctx, query, append(args, pageArgs...)...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListTasks"), err)
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("ListTasks"), err)
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, total, nil
}

// UpdateTask applies patch to the stored task inside one transaction.
func (r *implRepository) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", r.dsn("UpdateTask"), err)
		return model.Task{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	current, err := r.getTask(ctx, tx, id)
	if err != nil {
		return model.Task{}, err
	}
	updated := current.Apply(patch)

	const query = `
		UPDATE tasks
		SET name = ?, description = ?, due_at = ?, range_start = ?, range_end = ?, status = ?
		WHERE id = ?`
	dueAt, start, end := dueColumns(updated.Due)
	if _, err := tx.ExecContext(ctx, query,
		updated.Name, updated.Description, dueAt, start, end, string(updated.Status), id,
	); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateTask"), err)
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", r.dsn("UpdateTask"), err)
		return model.Task{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// DeleteTask removes the task with id or returns repo.ErrNotFound.
func (r *implRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteTask"), err)
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}
