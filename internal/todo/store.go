// Package todo implements the task-list application: a sqlite-backed store
// and the JSON API on top of it. It shares nothing with the watch run.
package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// ErrNotFound is returned when no todo has the requested id.
var ErrNotFound = errors.New("todo not found")

// Todo is one task.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Done      bool   `json:"done"`
	CreatedAt int64  `json:"created_at"`
}

// Store persists todos in sqlite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and if needed creates) the todo database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO metadata(key, value) VALUES('schema_version', ?) ON CONFLICT(key) DO NOTHING",
		fmt.Sprintf("%d", schemaVersion),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns all todos, open tasks first, oldest first within each group.
func (s *Store) List(ctx context.Context) ([]Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, done, created_at FROM todos ORDER BY done ASC, created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var todos []Todo
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Done, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Add creates a new todo with the given title.
func (s *Store) Add(ctx context.Context, title string) (Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Todo{}, errors.New("title is required")
	}

	t := Todo{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		Title:     title,
		CreatedAt: s.now().Unix(),
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO todos(id, title, done, created_at) VALUES(?, ?, 0, ?)",
		t.ID, t.Title, t.CreatedAt,
	); err != nil {
		return Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return t, nil
}

// Toggle flips the done flag and returns the updated todo.
func (s *Store) Toggle(ctx context.Context, id string) (Todo, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE todos SET done = NOT done WHERE id = ?", id)
	if err != nil {
		return Todo{}, fmt.Errorf("toggle todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Todo{}, ErrNotFound
	}
	return s.get(ctx, id)
}

// Rename changes a todo's title.
func (s *Store) Rename(ctx context.Context, id, title string) (Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Todo{}, errors.New("title is required")
	}

	res, err := s.db.ExecContext(ctx, "UPDATE todos SET title = ? WHERE id = ?", title, id)
	if err != nil {
		return Todo{}, fmt.Errorf("rename todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Todo{}, ErrNotFound
	}
	return s.get(ctx, id)
}

// Delete removes a todo.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) get(ctx context.Context, id string) (Todo, error) {
	var t Todo
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, done, created_at FROM todos WHERE id = ?", id,
	).Scan(&t.ID, &t.Title, &t.Done, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}
