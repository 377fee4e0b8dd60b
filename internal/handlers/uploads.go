package handlers

import (
	"net/http"
	"time"

	"github.com/docker/go-units"
	"github.com/go-chi/chi/v5"

	"studyhub/internal/contextutil"
	"studyhub/internal/document"
	"studyhub/internal/service"
)

// UploadHandler handles HTTP requests for uploaded documents.
type UploadHandler struct {
	documents service.DocumentService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(documents service.DocumentService) *UploadHandler {
	return &UploadHandler{documents: documents}
}

// UploadRequest is the metadata of an uploaded file.
type UploadRequest struct {
	OwnerID        string `json:"owner_id"`
	UserName       string `json:"user_name"`
	Title          string `json:"title"`
	Folder         string `json:"folder"`
	Size           int64  `json:"size"`
	Type           string `json:"type"`
	URL            string `json:"url"`
	CreatedAtLocal string `json:"created_at_local"`
}

// UploadWithContentRequest is a pipeline-processed upload.
type UploadWithContentRequest struct {
	UploadRequest
	Content   string    `json:"content"`
	Embedding []float64 `json:"embedding"`
	Processed bool      `json:"processed"`
}

// EmbeddingCallbackRequest is the AI pipeline's result for one document.
type EmbeddingCallbackRequest struct {
	Content   string    `json:"content"`
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error"`
}

// UpdateUploadRequest carries optional metadata changes.
type UpdateUploadRequest struct {
	Title  *string `json:"title"`
	Folder *string `json:"folder"`
}

// DocumentResponse is the public view of a document. Embeddings are summarised, not echoed.
type DocumentResponse struct {
	ID             string `json:"id"`
	OwnerID        string `json:"owner_id"`
	UserName       string `json:"user_name"`
	Title          string `json:"title"`
	Folder         string `json:"folder"`
	Size           int64  `json:"size"`
	SizeHuman      string `json:"size_human"`
	Type           string `json:"type"`
	URL            string `json:"url"`
	Content        string `json:"content,omitempty"`
	Status         string `json:"status"`
	Processed      bool   `json:"processed"`
	EmbeddingDims  int    `json:"embedding_dims"`
	CreatedAt      string `json:"created_at"`
	CreatedAtLocal string `json:"created_at_local,omitempty"`
	UpdatedAt      string `json:"updated_at"`
}

// ListUploadsResponse wraps a document listing.
type ListUploadsResponse struct {
	Uploads []DocumentResponse `json:"uploads"`
}

// Create handles POST /api/uploads.
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.documents.Upload(ctx, req.toService())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to save upload")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toDocumentResponse(doc))
}

// CreateWithContent handles POST /api/uploads/with-content.
func (h *UploadHandler) CreateWithContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UploadWithContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.documents.SaveProcessed(ctx, service.ProcessedUpload{
		UploadRequest: req.toService(),
		Content:       req.Content,
		Embedding:     req.Embedding,
		Processed:     req.Processed,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to save processed upload")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toDocumentResponse(doc))
}

// List handles GET /api/uploads.
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := queryInt(r, "limit")
	if err != nil {
		handleServiceError(w, ctx, err, "Invalid limit")
		return
	}

	q := r.URL.Query()
	docs, err := h.documents.List(ctx, service.ListUploadsRequest{
		OwnerID: q.Get("owner_id"),
		Folder:  q.Get("folder"),
		Limit:   limit,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list uploads")
		return
	}

	resp := ListUploadsResponse{Uploads: make([]DocumentResponse, 0, len(docs))}
	for i := range docs {
		resp.Uploads = append(resp.Uploads, toDocumentResponse(&docs[i]))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// RecordEmbedding handles PUT /api/uploads/{id}/embedding.
func (h *UploadHandler) RecordEmbedding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req EmbeddingCallbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.documents.RecordEmbedding(ctx, id, service.EmbeddingReport{
		Content:   req.Content,
		Embedding: req.Embedding,
		Error:     req.Error,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to record embedding")
		return
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "pipeline callback applied", "id", id, "status", doc.Status)
	writeJSON(ctx, w, http.StatusOK, toDocumentResponse(doc))
}

// Update handles PUT /api/uploads/{id}.
func (h *UploadHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateUploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.documents.UpdateMetadata(ctx, chi.URLParam(r, "id"), req.Title, req.Folder)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update upload")
		return
	}
	writeJSON(ctx, w, http.StatusOK, toDocumentResponse(doc))
}

// Delete handles DELETE /api/uploads/{id}.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.documents.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete upload")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req UploadRequest) toService() service.UploadRequest {
	return service.UploadRequest{
		OwnerID:        req.OwnerID,
		UserName:       req.UserName,
		Title:          req.Title,
		Folder:         req.Folder,
		Size:           req.Size,
		MimeType:       req.Type,
		URL:            req.URL,
		CreatedAtLocal: req.CreatedAtLocal,
	}
}

func toDocumentResponse(doc *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:             doc.ID,
		OwnerID:        doc.OwnerID,
		UserName:       doc.UserName,
		Title:          doc.Title,
		Folder:         doc.Folder,
		Size:           doc.Size,
		SizeHuman:      units.HumanSize(float64(doc.Size)),
		Type:           doc.MimeType,
		URL:            doc.URL,
		Content:        doc.Content,
		Status:         string(doc.Status),
		Processed:      doc.Processed(),
		EmbeddingDims:  len(doc.Embedding),
		CreatedAt:      doc.CreatedAt.UTC().Format(time.RFC3339),
		CreatedAtLocal: doc.CreatedAtLocal,
		UpdatedAt:      doc.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
