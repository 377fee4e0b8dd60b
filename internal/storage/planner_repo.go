package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlannerItem is a dated study task.
type PlannerItem struct {
	ID        string
	OwnerID   string
	Title     string
	DueAt     time.Time
	Notes     string
	CreatedAt time.Time
}

// PlannerStore defines the interface for planner storage operations.
type PlannerStore interface {
	// Create inserts a new planner item.
	Create(ctx context.Context, item *PlannerItem) error
	// Upcoming returns up to limit items of ownerID due at or after from, soonest first.
	Upcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]PlannerItem, error)
	// Delete deletes a planner item. Returns ErrNotFound if not found.
	Delete(ctx context.Context, id string) error
}

// PlannerRepo provides methods for planner operations.
type PlannerRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewPlannerRepo creates a new PlannerRepo.
func NewPlannerRepo(db *sql.DB) *PlannerRepo {
	return &PlannerRepo{db: db, now: time.Now}
}

// Create inserts a new planner item.
func (r *PlannerRepo) Create(ctx context.Context, item *PlannerItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.DueAt = item.DueAt.UTC()
	item.CreatedAt = r.now().UTC()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO planner_items (id, owner_id, title, due_at, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		item.ID, item.OwnerID, item.Title, formatTime(item.DueAt), item.Notes, formatTime(item.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert planner item: %w", err)
	}
	return nil
}

// Upcoming returns the next items due for an owner.
func (r *PlannerRepo) Upcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]PlannerItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, title, due_at, notes, created_at FROM planner_items
		 WHERE owner_id = ? AND due_at >= ? ORDER BY due_at ASC LIMIT ?`,
		ownerID, formatTime(from), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query planner items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	items := []PlannerItem{}
	for rows.Next() {
		var item PlannerItem
		var dueAt, createdAt string
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Title, &dueAt, &item.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan planner item: %w", err)
		}
		if item.DueAt, err = parseTime(dueAt); err != nil {
			return nil, err
		}
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// Delete deletes a planner item. Returns ErrNotFound if not found.
func (r *PlannerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM planner_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete planner item: %w", err)
	}
	return expectOneRow(res)
}
