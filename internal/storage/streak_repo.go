package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Streak tracks consecutive study days for an owner.
type Streak struct {
	OwnerID       string
	LastStudyDate string // YYYY-MM-DD
	CurrentStreak int
	BestStreak    int
	UpdatedAt     time.Time
}

// StreakStore defines the interface for streak storage operations.
type StreakStore interface {
	// Get returns the streak of ownerID. Returns ErrNotFound if none was recorded.
	Get(ctx context.Context, ownerID string) (*Streak, error)
	// Save inserts or replaces the streak of streak.OwnerID.
	Save(ctx context.Context, streak *Streak) error
}

// StreakRepo provides methods for streak operations.
type StreakRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewStreakRepo creates a new StreakRepo.
func NewStreakRepo(db *sql.DB) *StreakRepo {
	return &StreakRepo{db: db, now: time.Now}
}

// Get returns the streak of an owner. Returns ErrNotFound if none was recorded.
func (r *StreakRepo) Get(ctx context.Context, ownerID string) (*Streak, error) {
	var s Streak
	var updatedAt string
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id, last_study_date, current_streak, best_streak, updated_at FROM streaks WHERE owner_id = ?",
		ownerID,
	).Scan(&s.OwnerID, &s.LastStudyDate, &s.CurrentStreak, &s.BestStreak, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query streak: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save inserts or replaces an owner's streak.
func (r *StreakRepo) Save(ctx context.Context, streak *Streak) error {
	streak.UpdatedAt = r.now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO streaks (owner_id, last_study_date, current_streak, best_streak, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (owner_id) DO UPDATE SET
		 last_study_date = excluded.last_study_date, current_streak = excluded.current_streak,
		 best_streak = excluded.best_streak, updated_at = excluded.updated_at`,
		streak.OwnerID, streak.LastStudyDate, streak.CurrentStreak, streak.BestStreak, formatTime(streak.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}
