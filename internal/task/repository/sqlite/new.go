package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"conversational-task-manager/internal/task/repository"
	"conversational-task-manager/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New opens (or creates) the SQLite database at path and migrates the schema.
func New(path string, l log.Logger) (repository.Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers; transactions stay atomic.
	db.SetMaxOpenConns(1)

	r := &implRepository{db: db, l: l}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return r, nil
}

func (r *implRepository) migrate() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_at      INTEGER,
			range_start INTEGER,
			range_end   INTEGER,
			status      TEXT NOT NULL DEFAULT 'pending',
			created_at  INTEGER NOT NULL,
			CHECK (due_at IS NULL OR range_start IS NULL)
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (r *implRepository) Close() error {
	return r.db.Close()
}

// dsn is a helper to return a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("internal.task.repository.sqlite.%s", method)
}
