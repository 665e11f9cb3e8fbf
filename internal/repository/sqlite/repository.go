package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"todo/internal/errors"
	"todo/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for task storage
type Repository interface {
	// Create operations
	CreateTask(ctx context.Context, task *Task) error

	// Read operations
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	SearchTasks(ctx context.Context, query string) ([]*Task, error)

	// Update operations
	UpdateTask(ctx context.Context, id string, update TaskUpdate) error

	// Delete operations
	DeleteTask(ctx context.Context, id string) error

	// Utility
	Close() error
}

// Migrator is implemented by repositories with a versioned schema
type Migrator interface {
	SchemaVersion(ctx context.Context) (int, error)
	RollbackSchema(ctx context.Context) (int, error)
}

// Options tunes per-statement deadlines. Zero durations disable them.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions creates a new SQLite repository with statement timeouts
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// A single connection keeps ":memory:" databases shared and
	// serialises writers for file databases.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SchemaVersion returns the newest applied migration version
func (r *SQLiteRepository) SchemaVersion(ctx context.Context) (int, error) {
	return migrations.CurrentVersion(ctx, r.db)
}

// RollbackSchema reverts the newest migration and returns its version,
// or 0 when nothing was applied. Opening the database again re-applies it.
func (r *SQLiteRepository) RollbackSchema(ctx context.Context) (int, error) {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()
	return migrations.Rollback(ctx, r.db)
}

var _ Migrator = (*SQLiteRepository)(nil)

func (r *SQLiteRepository) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.opts.QueryTimeout)
}

func (r *SQLiteRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.opts.WriteTimeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// CreateTask creates a new task. The caller assigns ID and CreatedAt;
// Seq is filled in from the insert.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `
	INSERT INTO tasks (id, title, description, is_completed, is_important, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	seq, err := ExecuteWithLastInsertID(ctx, r.db, query,
		task.ID, task.Title, task.Description, task.IsCompleted, task.IsImportant, task.CreatedAt)
	if err != nil {
		return err
	}
	task.Seq = seq
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (*Task, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", id, id)
}

// ListTasks retrieves all tasks in creation order
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY seq ASC`
	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
}

// SearchTasks retrieves tasks whose title or description contains query,
// ignoring ASCII case, in creation order. An empty query lists everything.
func (r *SQLiteRepository) SearchTasks(ctx context.Context, query string) ([]*Task, error) {
	if strings.TrimSpace(query) == "" {
		return r.ListTasks(ctx)
	}

	ctx, cancel := r.readContext(ctx)
	defer cancel()

	pattern := likePattern(query)
	sqlQuery := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
	ORDER BY seq ASC`

	return QueryMultiple(ctx, r.db, sqlQuery, ScanTasks, "tasks", pattern, pattern)
}

// UpdateTask changes the columns set in update. An empty update only
// checks that the task exists.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, id string, update TaskUpdate) error {
	if update.IsEmpty() {
		_, err := r.GetTask(ctx, id)
		return err
	}

	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	var sets []string
	var args []interface{}
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.IsCompleted != nil {
		sets = append(sets, "is_completed = ?")
		args = append(args, *update.IsCompleted)
	}
	if update.IsImportant != nil {
		sets = append(sets, "is_important = ?")
		args = append(args, *update.IsImportant)
	}
	args = append(args, id)

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", id, args...)
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `DELETE FROM tasks WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", id, id)
}
