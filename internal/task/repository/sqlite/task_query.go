package sqlite

import (
	"database/sql"
	"strings"
	"time"

	"conversational-task-manager/internal/model"
	repo "conversational-task-manager/internal/task/repository"
)

const taskColumns = `id, name, description, due_at, range_start, range_end, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// buildWhere builds the WHERE clause + args shared by count and list.
// The anchor of a task is due_at, else range_start.
func (r *implRepository) buildWhere(opt repo.ListTasksOptions) (string, []any) {
	var conditions []string
	var args []any

	if opt.Name != "" {
		conditions = append(conditions, "instr(lower(name), ?) > 0")
		args = append(args, strings.ToLower(opt.Name))
	}
	if opt.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*opt.Status))
	}
	if opt.Before != nil {
		conditions = append(conditions, "COALESCE(due_at, range_start) < ?")
		args = append(args, opt.Before.UnixNano())
	}
	if opt.After != nil {
		conditions = append(conditions, "COALESCE(due_at, range_start) > ?")
		args = append(args, opt.After.UnixNano())
	}

	if len(conditions) == 0 {
		return "1=1", args
	}
	return strings.Join(conditions, " AND "), args
}

// buildPage returns the ORDER + LIMIT + OFFSET suffix for ListTasks.
func (r *implRepository) buildPage(opt repo.ListTasksOptions) (string, []any) {
	parts := []string{"ORDER BY created_at DESC, id DESC"}
	var args []any

	switch {
	case opt.Limit > 0:
		parts = append(parts, "LIMIT ? OFFSET ?")
		args = append(args, opt.Limit, opt.Offset)
	case opt.Offset > 0:
		parts = append(parts, "LIMIT -1 OFFSET ?")
		args = append(args, opt.Offset)
	}
	return strings.Join(parts, " "), args
}

// dueColumns flattens the due union into its three nullable columns.
func dueColumns(d model.Due) (dueAt, start, end sql.NullInt64) {
	if at, ok := d.At(); ok {
		dueAt = sql.NullInt64{Int64: at.UnixNano(), Valid: true}
	}
	if rg, ok := d.Range(); ok {
		start = sql.NullInt64{Int64: rg.Start.UnixNano(), Valid: true}
		end = sql.NullInt64{Int64: rg.End.UnixNano(), Valid: true}
	}
	return
}

func scanTask(s rowScanner) (model.Task, error) {
	var (
		t                 model.Task
		dueAt, start, end sql.NullInt64
		status            string
		createdAt         int64
	)
	if err := s.Scan(&t.ID, &t.Name, &t.Description, &dueAt, &start, &end, &status, &createdAt); err != nil {
		return model.Task{}, err
	}

	switch {
	case dueAt.Valid:
		t.Due = model.FixedDue(fromNanos(dueAt.Int64))
	case start.Valid && end.Valid:
		due, err := model.RangeDue(fromNanos(start.Int64), fromNanos(end.Int64))
		if err != nil {
			return model.Task{}, err
		}
		t.Due = due
	default:
		t.Due = model.NoDue()
	}

	st, err := model.ParseStatus(status)
	if err != nil {
		return model.Task{}, err
	}
	t.Status = st
	t.CreatedAt = fromNanos(createdAt)
	return t, nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
