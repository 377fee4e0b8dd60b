package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studyhub/internal/service"
	"studyhub/internal/storage"
)

func newTestStudyHandler(t *testing.T, now time.Time) *StudyHandler {
	db := newTestDB(t)
	return NewStudyHandler(service.NewStudyService(service.StudyStores{
		Documents: storage.NewDocumentRepo(db),
		Todos:     storage.NewTodoRepo(db),
		Planner:   storage.NewPlannerRepo(db),
		Streaks:   storage.NewStreakRepo(db),
	}, func() time.Time { return now }))
}

func TestStudyHandler_Todos(t *testing.T) {
	h := newTestStudyHandler(t, time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))

	w := httptest.NewRecorder()
	h.CreateTodo(w, httptest.NewRequest(http.MethodPost, "/api/todos", jsonBody(t, CreateTodoRequest{OwnerID: "u1", Title: "read"})))
	if w.Code != http.StatusCreated {
		t.Fatalf("CreateTodo status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var todo TodoResponse
	if err := json.NewDecoder(w.Body).Decode(&todo); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/todos/"+todo.ID, jsonBody(t, `{"done":true}`))
	h.UpdateTodo(w, withURLParam(req, "id", todo.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("UpdateTodo status = %d, want 200", w.Code)
	}
	var updated TodoResponse
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !updated.Done || updated.Title != "read" {
		t.Errorf("UpdateTodo() = %+v", updated)
	}

	w = httptest.NewRecorder()
	h.ListTodos(w, httptest.NewRequest(http.MethodGet, "/api/todos?owner_id=u1", nil))
	var todos []TodoResponse
	if err := json.NewDecoder(w.Body).Decode(&todos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(todos) != 1 {
		t.Errorf("ListTodos() returned %d todos, want 1", len(todos))
	}

	w = httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, "/api/stats?owner_id=u1", nil))
	if got := strings.TrimSpace(w.Body.String()); got != `{"docs_studied":0,"focus_time":"0h 0m","tasks_done":1}` {
		t.Errorf("Stats body = %s", got)
	}

	w = httptest.NewRecorder()
	h.DeleteTodo(w, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/todos/"+todo.ID, nil), "id", todo.ID))
	if w.Code != http.StatusNoContent {
		t.Errorf("DeleteTodo status = %d, want 204", w.Code)
	}

	w = httptest.NewRecorder()
	h.ListTodos(w, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("ListTodos without owner status = %d, want 400", w.Code)
	}
}

func TestStudyHandler_Planner(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	h := newTestStudyHandler(t, now)

	tests := []struct {
		name       string
		body       CreatePlannerItemRequest
		wantStatus int
	}{
		{name: "valid", body: CreatePlannerItemRequest{OwnerID: "u1", Title: "exam", DueAt: "2026-10-20T10:00:00Z"}, wantStatus: http.StatusCreated},
		{name: "bad date", body: CreatePlannerItemRequest{OwnerID: "u1", Title: "exam", DueAt: "next week"}, wantStatus: http.StatusBadRequest},
		{name: "missing date", body: CreatePlannerItemRequest{OwnerID: "u1", Title: "exam"}, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.CreatePlannerItem(w, httptest.NewRequest(http.MethodPost, "/api/planner", jsonBody(t, tt.body)))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}

	w := httptest.NewRecorder()
	h.Upcoming(w, httptest.NewRequest(http.MethodGet, "/api/planner/upcoming?owner_id=u1", nil))
	var items []PlannerItemResponse
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].DueAt != "2026-10-20T10:00:00Z" {
		t.Fatalf("Upcoming() = %+v", items)
	}

	w = httptest.NewRecorder()
	h.DeletePlannerItem(w, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/planner/"+items[0].ID, nil), "id", items[0].ID))
	if w.Code != http.StatusNoContent {
		t.Errorf("DeletePlannerItem status = %d, want 204", w.Code)
	}
}

func TestStudyHandler_Streak(t *testing.T) {
	h := newTestStudyHandler(t, time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))

	w := httptest.NewRecorder()
	h.Streak(w, httptest.NewRequest(http.MethodGet, "/api/streak?owner_id=u1", nil))
	if got := strings.TrimSpace(w.Body.String()); got != "null" {
		t.Errorf("Streak before ping = %s, want null", got)
	}

	w = httptest.NewRecorder()
	h.PingStreak(w, httptest.NewRequest(http.MethodPost, "/api/streak/ping", jsonBody(t, OwnerRequest{OwnerID: "u1"})))
	var streak StreakResponse
	if err := json.NewDecoder(w.Body).Decode(&streak); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if streak.CurrentStreak != 1 || streak.LastStudyDate != "2026-10-14" {
		t.Errorf("PingStreak() = %+v", streak)
	}
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		pingErr    error
		wantStatus int
		wantState  string
	}{
		{name: "healthy", method: http.MethodGet, wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "database down", method: http.MethodGet, pingErr: errors.New("closed"), wantStatus: http.StatusServiceUnavailable, wantState: "unhealthy"},
		{name: "method not allowed", method: http.MethodPost, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHealthHandler(fakePinger{err: tt.pingErr}).ServeHTTP(w, httptest.NewRequest(tt.method, "/health", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantState == "" {
				return
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("status field = %s, want %s", resp.Status, tt.wantState)
			}
		})
	}
}
