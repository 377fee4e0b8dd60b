package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"studyhub/internal/contextutil"
	"studyhub/internal/service"
	"studyhub/internal/storage"
)

var notePage = template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 760px; margin: 0 auto; padding: 2rem; line-height: 1.6; color: #1f2933; }
    header { border-bottom: 1px solid #d9e2ec; margin-bottom: 1.5rem; }
    .meta { color: #627d98; font-size: 0.9rem; }
    pre { background: #f0f4f8; padding: 1rem; overflow-x: auto; border-radius: 6px; }
    code { font-family: ui-monospace, Menlo, monospace; }
    blockquote { border-left: 3px solid #9fb3c8; margin-left: 0; padding-left: 1rem; color: #486581; }
    table { border-collapse: collapse; }
    td, th { border: 1px solid #d9e2ec; padding: 0.3rem 0.6rem; }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">{{.Author}} &middot; {{.Written}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

// notePageData holds template data for rendered note pages.
type notePageData struct {
	Title   string
	Author  string
	Written string
	Content template.HTML
}

// NoteHandler handles HTTP requests for notes, including rendering them as HTML pages.
type NoteHandler struct {
	notes  *service.NoteService
	parser goldmark.Markdown
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{
		notes: notes,
		// Raw HTML in notes is omitted from the output.
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// CreateNoteRequest represents the HTTP request payload for a new note.
type CreateNoteRequest struct {
	OwnerID        string `json:"owner_id"`
	UserName       string `json:"user_name"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	CreatedAtLocal string `json:"created_at_local"`
}

// NoteResponse is the public view of a note.
type NoteResponse struct {
	ID             string `json:"id"`
	OwnerID        string `json:"owner_id,omitempty"`
	UserName       string `json:"user_name"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
	CreatedAtLocal string `json:"created_at_local,omitempty"`
}

// ListNotesResponse wraps a note listing.
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}

// Create handles POST /api/notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.notes.Create(ctx, service.CreateNoteRequest{
		OwnerID:        req.OwnerID,
		UserName:       req.UserName,
		Title:          req.Title,
		Content:        req.Content,
		CreatedAtLocal: req.CreatedAtLocal,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to save note")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toNoteResponse(note))
}

// List handles GET /api/notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	notes, err := h.notes.List(ctx, q.Get("owner_id"), q.Get("user_name"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list notes")
		return
	}

	resp := ListNotesResponse{Notes: make([]NoteResponse, 0, len(notes))}
	for i := range notes {
		resp.Notes = append(resp.Notes, toNoteResponse(&notes[i]))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Get handles GET /api/notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	note, err := h.notes.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, toNoteResponse(note))
}

// Delete handles DELETE /api/notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.notes.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenderHTML handles GET /api/notes/{id}/html, rendering the note's markdown as a page.
func (h *NoteHandler) RenderHTML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	note, err := h.notes.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load note")
		return
	}

	body, err := h.renderMarkdown([]byte(note.Content))
	if err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "id", note.ID, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}

	var page bytes.Buffer
	err = notePage.Execute(&page, notePageData{
		Title:   note.Title,
		Author:  note.UserName,
		Written: writtenAt(note),
		Content: template.HTML(body),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to execute note template", "id", note.ID, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
}

func (h *NoteHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.parser.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// writtenAt prefers the client's own rendering of the creation time.
func writtenAt(note *storage.Note) string {
	if note.CreatedAtLocal != "" {
		return note.CreatedAtLocal
	}
	return note.CreatedAt.UTC().Format("2006-01-02 15:04 MST")
}

func toNoteResponse(note *storage.Note) NoteResponse {
	return NoteResponse{
		ID:             note.ID,
		OwnerID:        note.OwnerID,
		UserName:       note.UserName,
		Title:          note.Title,
		Content:        note.Content,
		CreatedAt:      note.CreatedAt.UTC().Format(time.RFC3339),
		CreatedAtLocal: note.CreatedAtLocal,
	}
}
