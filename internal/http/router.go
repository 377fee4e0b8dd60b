package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"studyhub/internal/handlers"
	"studyhub/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Insights  service.InsightsService
	Documents service.DocumentService
	Notes     *service.NoteService
	Study     *service.StudyService
	DB        handlers.Pinger

	AllowedOrigin  string
	RequestTimeout time.Duration // 0 disables the per-request timeout
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigin))
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	health := handlers.NewHealthHandler(deps.DB)
	insights := handlers.NewInsightsHandler(deps.Insights)
	uploads := handlers.NewUploadHandler(deps.Documents)
	notes := handlers.NewNoteHandler(deps.Notes)
	study := handlers.NewStudyHandler(deps.Study)

	r.Method(http.MethodGet, "/health", health)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", health)

		r.Route("/uploads", func(r chi.Router) {
			r.Get("/", uploads.List)
			r.Post("/", uploads.Create)
			r.Post("/with-content", uploads.CreateWithContent)
			r.Put("/{id}", uploads.Update)
			r.Delete("/{id}", uploads.Delete)
			r.Put("/{id}/embedding", uploads.RecordEmbedding)
		})

		r.Post("/recommend", insights.Recommend)
		r.Get("/analytics/uploads", insights.WeeklyUploads)
		r.Get("/analytics/folders", insights.FolderAnalytics)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notes.List)
			r.Post("/", notes.Create)
			r.Get("/{id}", notes.Get)
			r.Delete("/{id}", notes.Delete)
			r.Get("/{id}/html", notes.RenderHTML)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", study.ListTodos)
			r.Post("/", study.CreateTodo)
			r.Patch("/{id}", study.UpdateTodo)
			r.Delete("/{id}", study.DeleteTodo)
		})

		r.Get("/planner/upcoming", study.Upcoming)
		r.Post("/planner", study.CreatePlannerItem)
		r.Delete("/planner/{id}", study.DeletePlannerItem)

		r.Post("/streak/ping", study.PingStreak)
		r.Get("/streak", study.Streak)
		r.Get("/stats", study.Stats)
	})

	return r
}
