package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studyhub/internal/service"
	"studyhub/internal/storage"
)

// StudyHandler handles HTTP requests for the dashboard: todos, planner, streak and stats.
type StudyHandler struct {
	study *service.StudyService
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(study *service.StudyService) *StudyHandler {
	return &StudyHandler{study: study}
}

// TodoResponse is the public view of a todo.
type TodoResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Done      bool   `json:"done"`
	Order     int    `json:"order"`
	CreatedAt string `json:"created_at"`
}

// CreateTodoRequest is a new todo.
type CreateTodoRequest struct {
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
}

// UpdateTodoRequest carries optional todo changes.
type UpdateTodoRequest struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// PlannerItemResponse is the public view of a planner item.
type PlannerItemResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	DueAt string `json:"due_at"`
	Notes string `json:"notes,omitempty"`
}

// CreatePlannerItemRequest schedules a task. DueAt is RFC 3339.
type CreatePlannerItemRequest struct {
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
	DueAt   string `json:"due_at"`
	Notes   string `json:"notes"`
}

// OwnerRequest is a body carrying only an owner.
type OwnerRequest struct {
	OwnerID string `json:"owner_id"`
}

// StreakResponse is the public view of a study streak.
type StreakResponse struct {
	LastStudyDate string `json:"last_study_date"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

// StatsResponse is the dashboard summary.
type StatsResponse struct {
	DocsStudied int    `json:"docs_studied"`
	FocusTime   string `json:"focus_time"`
	TasksDone   int    `json:"tasks_done"`
}

// ListTodos handles GET /api/todos.
func (h *StudyHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	todos, err := h.study.Todos(ctx, r.URL.Query().Get("owner_id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list todos")
		return
	}

	resp := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		resp = append(resp, toTodoResponse(&todos[i]))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// CreateTodo handles POST /api/todos.
func (h *StudyHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := h.study.AddTodo(ctx, req.OwnerID, req.Title)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create todo")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toTodoResponse(todo))
}

// UpdateTodo handles PATCH /api/todos/{id}.
func (h *StudyHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := h.study.UpdateTodo(ctx, chi.URLParam(r, "id"), storage.TodoUpdate{Title: req.Title, Done: req.Done})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update todo")
		return
	}
	writeJSON(ctx, w, http.StatusOK, toTodoResponse(todo))
}

// DeleteTodo handles DELETE /api/todos/{id}.
func (h *StudyHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.study.DeleteTodo(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Upcoming handles GET /api/planner/upcoming.
func (h *StudyHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := queryInt(r, "limit")
	if err != nil {
		handleServiceError(w, ctx, err, "Invalid limit")
		return
	}

	items, err := h.study.Upcoming(ctx, r.URL.Query().Get("owner_id"), limit)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list planner items")
		return
	}

	resp := make([]PlannerItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toPlannerResponse(&items[i]))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// CreatePlannerItem handles POST /api/planner.
func (h *StudyHandler) CreatePlannerItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePlannerItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var due time.Time
	if req.DueAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueAt)
		if err != nil {
			handleServiceError(w, ctx, &service.ValidationError{Field: "due_at", Message: "must be an RFC 3339 timestamp"}, "Invalid due date")
			return
		}
		due = parsed
	}

	item, err := h.study.AddPlannerItem(ctx, storage.PlannerItem{
		OwnerID: req.OwnerID,
		Title:   req.Title,
		DueAt:   due,
		Notes:   req.Notes,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create planner item")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toPlannerResponse(item))
}

// DeletePlannerItem handles DELETE /api/planner/{id}.
func (h *StudyHandler) DeletePlannerItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.study.DeletePlannerItem(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete planner item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PingStreak handles POST /api/streak/ping.
func (h *StudyHandler) PingStreak(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OwnerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	streak, err := h.study.PingStreak(ctx, req.OwnerID)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update streak")
		return
	}
	writeJSON(ctx, w, http.StatusOK, toStreakResponse(streak))
}

// Streak handles GET /api/streak. An owner without a streak gets null.
func (h *StudyHandler) Streak(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	streak, err := h.study.Streak(ctx, r.URL.Query().Get("owner_id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load streak")
		return
	}
	if streak == nil {
		writeJSON(ctx, w, http.StatusOK, nil)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toStreakResponse(streak))
}

// Stats handles GET /api/stats.
func (h *StudyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.study.Stats(ctx, r.URL.Query().Get("owner_id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to compute stats")
		return
	}
	writeJSON(ctx, w, http.StatusOK, StatsResponse{
		DocsStudied: stats.DocsStudied,
		FocusTime:   stats.FocusTime,
		TasksDone:   stats.TasksDone,
	})
}

func toTodoResponse(t *storage.Todo) TodoResponse {
	return TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Done:      t.Done,
		Order:     t.Order,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toPlannerResponse(p *storage.PlannerItem) PlannerItemResponse {
	return PlannerItemResponse{
		ID:    p.ID,
		Title: p.Title,
		DueAt: p.DueAt.UTC().Format(time.RFC3339),
		Notes: p.Notes,
	}
}

func toStreakResponse(s *storage.Streak) StreakResponse {
	return StreakResponse{
		LastStudyDate: s.LastStudyDate,
		CurrentStreak: s.CurrentStreak,
		BestStreak:    s.BestStreak,
	}
}
