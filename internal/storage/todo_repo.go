package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Todo is a checklist item on the dashboard.
type Todo struct {
	ID        string
	OwnerID   string
	Title     string
	Done      bool
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoUpdate carries optional todo changes. Nil fields are left unchanged.
type TodoUpdate struct {
	Title *string
	Done  *bool
}

// TodoStore defines the interface for todo storage operations.
type TodoStore interface {
	// Create inserts a new todo.
	Create(ctx context.Context, todo *Todo) error
	// ListByOwner returns open todos before done ones, then by order, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Todo, error)
	// CountDone returns the number of completed todos of ownerID.
	CountDone(ctx context.Context, ownerID string) (int, error)
	// Update applies update to a todo. Returns ErrNotFound if not found.
	Update(ctx context.Context, id string, update TodoUpdate) (*Todo, error)
	// Delete deletes a todo. Returns ErrNotFound if not found.
	Delete(ctx context.Context, id string) error
}

// TodoRepo provides methods for todo operations.
type TodoRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewTodoRepo creates a new TodoRepo.
func NewTodoRepo(db *sql.DB) *TodoRepo {
	return &TodoRepo{db: db, now: time.Now}
}

// Create inserts a new todo.
func (r *TodoRepo) Create(ctx context.Context, todo *Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	todo.CreatedAt = r.now().UTC()
	todo.UpdatedAt = todo.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, owner_id, title, done, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		todo.ID, todo.OwnerID, todo.Title, todo.Done, todo.Order,
		formatTime(todo.CreatedAt), formatTime(todo.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

// ListByOwner returns the todos of an owner.
func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID string) ([]Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, title, done, sort_order, created_at, updated_at FROM todos
		 WHERE owner_id = ? ORDER BY done ASC, sort_order ASC, created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	todos := []Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return todos, nil
}

// CountDone returns the number of completed todos of an owner.
func (r *TodoRepo) CountDone(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos WHERE owner_id = ? AND done = 1", ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return n, nil
}

// Update applies update to a todo and returns the stored result.
func (r *TodoRepo) Update(ctx context.Context, id string, update TodoUpdate) (*Todo, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(r.now())}
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*update.Title))
	}
	if update.Done != nil {
		sets = append(sets, "done = ?")
		args = append(args, *update.Done)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, "UPDATE todos SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT id, owner_id, title, done, sort_order, created_at, updated_at FROM todos WHERE id = ?", id)
	todo, err := scanTodo(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return todo, err
}

// Delete deletes a todo. Returns ErrNotFound if not found.
func (r *TodoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return expectOneRow(res)
}

func scanTodo(s rowScanner) (*Todo, error) {
	var todo Todo
	var createdAt, updatedAt string
	err := s.Scan(&todo.ID, &todo.OwnerID, &todo.Title, &todo.Done, &todo.Order, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan todo: %w", err)
	}
	if todo.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if todo.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &todo, nil
}
