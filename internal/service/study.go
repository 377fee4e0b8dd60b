package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"studyhub/internal/contextutil"
	"studyhub/internal/storage"
)

const (
	defaultUpcomingLimit = 3
	maxUpcomingLimit     = 10

	// focusTimePlaceholder is reported until focus sessions are tracked.
	focusTimePlaceholder = "0h 0m"
)

// Stats is the dashboard summary of an owner.
type Stats struct {
	DocsStudied int
	FocusTime   string
	TasksDone   int
}

// StudyStores groups the stores behind the study dashboard.
type StudyStores struct {
	Documents storage.DocumentStore
	Todos     storage.TodoStore
	Planner   storage.PlannerStore
	Streaks   storage.StreakStore
}

// StudyService backs the dashboard widgets: todos, planner, streak and stats.
type StudyService struct {
	stores StudyStores
	now    func() time.Time
}

// NewStudyService creates a new StudyService. A nil now defaults to time.Now.
func NewStudyService(stores StudyStores, now func() time.Time) *StudyService {
	if now == nil {
		now = time.Now
	}
	return &StudyService{stores: stores, now: now}
}

// Todos lists the owner's todos, open ones first.
func (s *StudyService) Todos(ctx context.Context, ownerID string) ([]storage.Todo, error) {
	ownerID = strings.TrimSpace(ownerID)
	if err := required("owner_id", ownerID); err != nil {
		return nil, err
	}
	todos, err := s.stores.Todos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fromStorage(err)
	}
	return todos, nil
}

// AddTodo creates an open todo.
func (s *StudyService) AddTodo(ctx context.Context, ownerID, title string) (*storage.Todo, error) {
	todo := &storage.Todo{OwnerID: strings.TrimSpace(ownerID), Title: strings.TrimSpace(title)}
	if err := required("owner_id", todo.OwnerID); err != nil {
		return nil, err
	}
	if err := required("title", todo.Title); err != nil {
		return nil, err
	}
	if err := s.stores.Todos.Create(ctx, todo); err != nil {
		return nil, fromStorage(err)
	}
	return todo, nil
}

// UpdateTodo changes the title and/or done flag of a todo.
func (s *StudyService) UpdateTodo(ctx context.Context, id string, update storage.TodoUpdate) (*storage.Todo, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	todo, err := s.stores.Todos.Update(ctx, id, update)
	if err != nil {
		return nil, fromStorage(err)
	}
	return todo, nil
}

// DeleteTodo removes a todo.
func (s *StudyService) DeleteTodo(ctx context.Context, id string) error {
	return fromStorage(s.stores.Todos.Delete(ctx, id))
}

// Upcoming returns planner items due from now on. The limit defaults to 3 and is clamped to 1..10.
func (s *StudyService) Upcoming(ctx context.Context, ownerID string, limit int) ([]storage.PlannerItem, error) {
	ownerID = strings.TrimSpace(ownerID)
	if err := required("owner_id", ownerID); err != nil {
		return nil, err
	}
	items, err := s.stores.Planner.Upcoming(ctx, ownerID, s.now(), clampLimit(limit, defaultUpcomingLimit, maxUpcomingLimit))
	if err != nil {
		return nil, fromStorage(err)
	}
	return items, nil
}

// AddPlannerItem schedules a dated task.
func (s *StudyService) AddPlannerItem(ctx context.Context, item storage.PlannerItem) (*storage.PlannerItem, error) {
	item.OwnerID = strings.TrimSpace(item.OwnerID)
	item.Title = strings.TrimSpace(item.Title)
	if err := required("owner_id", item.OwnerID); err != nil {
		return nil, err
	}
	if err := required("title", item.Title); err != nil {
		return nil, err
	}
	if item.DueAt.IsZero() {
		return nil, &ValidationError{Field: "due_at", Message: "is required"}
	}
	if err := s.stores.Planner.Create(ctx, &item); err != nil {
		return nil, fromStorage(err)
	}
	return &item, nil
}

// DeletePlannerItem removes a planner item.
func (s *StudyService) DeletePlannerItem(ctx context.Context, id string) error {
	return fromStorage(s.stores.Planner.Delete(ctx, id))
}

// PingStreak records study activity for today and returns the updated streak.
func (s *StudyService) PingStreak(ctx context.Context, ownerID string) (*storage.Streak, error) {
	ownerID = strings.TrimSpace(ownerID)
	if err := required("owner_id", ownerID); err != nil {
		return nil, err
	}

	prev, err := s.stores.Streaks.Get(ctx, ownerID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fromStorage(err)
	}

	next := AdvanceStreak(prev, ownerID, s.now())
	if prev != nil && prev.LastStudyDate == next.LastStudyDate {
		return prev, nil
	}
	if err := s.stores.Streaks.Save(ctx, &next); err != nil {
		return nil, fromStorage(err)
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "streak updated",
		"owner_id", ownerID, "current", next.CurrentStreak, "best", next.BestStreak)
	return &next, nil
}

// Streak returns the owner's streak, or nil when none was recorded.
func (s *StudyService) Streak(ctx context.Context, ownerID string) (*storage.Streak, error) {
	ownerID = strings.TrimSpace(ownerID)
	if err := required("owner_id", ownerID); err != nil {
		return nil, err
	}
	streak, err := s.stores.Streaks.Get(ctx, ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fromStorage(err)
	}
	return streak, nil
}

// Stats summarises the owner's activity.
func (s *StudyService) Stats(ctx context.Context, ownerID string) (Stats, error) {
	ownerID = strings.TrimSpace(ownerID)
	if err := required("owner_id", ownerID); err != nil {
		return Stats{}, err
	}

	docs, err := s.stores.Documents.CountByOwner(ctx, ownerID)
	if err != nil {
		return Stats{}, fromStorage(err)
	}
	done, err := s.stores.Todos.CountDone(ctx, ownerID)
	if err != nil {
		return Stats{}, fromStorage(err)
	}
	return Stats{DocsStudied: docs, FocusTime: focusTimePlaceholder, TasksDone: done}, nil
}
