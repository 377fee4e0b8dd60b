package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks -mock_names=DocumentService=MockDocumentService studyhub/internal/service DocumentService

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/go-units"

	"studyhub/internal/contextutil"
	"studyhub/internal/document"
	"studyhub/internal/storage"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100

	anonymousUser = "Anonymous"
)

// UploadRequest describes a newly uploaded file awaiting processing.
type UploadRequest struct {
	OwnerID        string
	UserName       string
	Title          string
	Folder         string
	Size           int64
	MimeType       string
	URL            string
	CreatedAtLocal string
}

// ProcessedUpload is a document saved by the AI pipeline with its content and embedding.
type ProcessedUpload struct {
	UploadRequest
	Content   string
	Embedding []float64
	Processed bool
}

// ListUploadsRequest filters a newest-first upload listing.
type ListUploadsRequest struct {
	OwnerID string
	Folder  string
	Limit   int // 0 selects the default
}

// EmbeddingReport is the pipeline callback for one pending document.
// A non-empty Error marks the document as failed.
type EmbeddingReport struct {
	Content   string
	Embedding []float64
	Error     string
}

// DocumentService manages uploaded documents.
type DocumentService interface {
	// Upload stores a pending document.
	Upload(ctx context.Context, req UploadRequest) (*document.Document, error)
	// SaveProcessed stores a document that already carries content and an embedding.
	SaveProcessed(ctx context.Context, req ProcessedUpload) (*document.Document, error)
	// List returns the owner's newest documents.
	List(ctx context.Context, req ListUploadsRequest) ([]document.Document, error)
	// UpdateMetadata renames or moves a document. Nil fields are left unchanged.
	UpdateMetadata(ctx context.Context, id string, title, folder *string) (*document.Document, error)
	// RecordEmbedding stores the pipeline result for a pending document exactly once.
	RecordEmbedding(ctx context.Context, id string, report EmbeddingReport) (*document.Document, error)
	// Delete removes a document.
	Delete(ctx context.Context, id string) error
}

// documentService implements DocumentService.
type documentService struct {
	store   storage.DocumentStore
	maxSize int64
}

// NewDocumentService creates a new DocumentService. Uploads larger than maxSize
// bytes are rejected; a maxSize of 0 disables the check.
func NewDocumentService(store storage.DocumentStore, maxSize int64) DocumentService {
	return &documentService{store: store, maxSize: maxSize}
}

// Upload validates and stores a pending document.
func (s *documentService) Upload(ctx context.Context, req UploadRequest) (*document.Document, error) {
	req = trimUpload(req)
	for _, f := range [][2]string{{"user_name", req.UserName}, {"title", req.Title}, {"folder", req.Folder}} {
		if err := required(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := s.checkSize(req.Size); err != nil {
		return nil, err
	}

	doc := newDocument(req)
	doc.Status = document.StatusPending
	if err := s.store.Create(ctx, doc); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to save upload", "title", doc.Title, "error", err)
		return nil, fromStorage(err)
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "upload saved",
		"id", doc.ID, "owner_id", doc.OwnerID, "folder", doc.Folder, "size", units.HumanSize(float64(doc.Size)))
	return doc, nil
}

// SaveProcessed stores a pipeline-produced document.
func (s *documentService) SaveProcessed(ctx context.Context, req ProcessedUpload) (*document.Document, error) {
	req.UploadRequest = trimUpload(req.UploadRequest)
	if req.UserName == "" {
		req.UserName = anonymousUser
	}
	if err := required("title", req.Title); err != nil {
		return nil, err
	}
	if err := required("folder", req.Folder); err != nil {
		return nil, err
	}
	if err := s.checkSize(req.Size); err != nil {
		return nil, err
	}

	doc := newDocument(req.UploadRequest)
	doc.Content = req.Content
	doc.Embedding = req.Embedding
	doc.Status = document.StatusPending
	if req.Processed {
		doc.Status = document.StatusReady
	}
	if err := s.store.Create(ctx, doc); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to save processed upload", "title", doc.Title, "error", err)
		return nil, fromStorage(err)
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "processed upload saved",
		"id", doc.ID, "status", doc.Status, "embedding_dims", len(doc.Embedding))
	return doc, nil
}

// List returns the owner's newest documents. The limit defaults to 10 and is clamped to 1..100.
func (s *documentService) List(ctx context.Context, req ListUploadsRequest) ([]document.Document, error) {
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	if err := required("owner_id", req.OwnerID); err != nil {
		return nil, err
	}

	docs, err := s.store.List(ctx, storage.ListDocumentsParams{
		OwnerID: req.OwnerID,
		Folder:  strings.TrimSpace(req.Folder),
		Limit:   clampLimit(req.Limit, defaultListLimit, maxListLimit),
	})
	if err != nil {
		return nil, fromStorage(err)
	}
	return docs, nil
}

// UpdateMetadata renames or moves a document.
func (s *documentService) UpdateMetadata(ctx context.Context, id string, title, folder *string) (*document.Document, error) {
	if title != nil && strings.TrimSpace(*title) == "" {
		return nil, &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if title == nil && folder == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	doc, err := s.store.UpdateMetadata(ctx, id, storage.MetadataUpdate{Title: title, Folder: folder})
	if err != nil {
		return nil, fromStorage(err)
	}
	return doc, nil
}

// RecordEmbedding stores the pipeline result.
func (s *documentService) RecordEmbedding(ctx context.Context, id string, report EmbeddingReport) (*document.Document, error) {
	result := storage.EmbeddingResult{
		Content:   report.Content,
		Embedding: report.Embedding,
		Status:    document.StatusReady,
	}
	if report.Error != "" {
		result.Status = document.StatusFailed
		result.Embedding = nil
	} else if len(report.Embedding) == 0 {
		return nil, &ValidationError{Field: "embedding", Message: "is required unless error is set"}
	}

	doc, err := s.store.RecordEmbedding(ctx, id, result)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "embedding not recorded", "id", id, "error", err)
		return nil, fromStorage(err)
	}
	if report.Error != "" {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "document processing failed", "id", id, "reason", report.Error)
	}
	return doc, nil
}

// Delete removes a document.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fromStorage(err)
	}
	return nil
}

func (s *documentService) checkSize(size int64) error {
	if size < 0 {
		return &ValidationError{Field: "size", Message: "cannot be negative"}
	}
	if s.maxSize > 0 && size > s.maxSize {
		return &ValidationError{
			Field:   "size",
			Message: fmt.Sprintf("%s exceeds the %s limit", units.HumanSize(float64(size)), units.HumanSize(float64(s.maxSize))),
		}
	}
	return nil
}

func trimUpload(req UploadRequest) UploadRequest {
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.UserName = strings.TrimSpace(req.UserName)
	req.Title = strings.TrimSpace(req.Title)
	req.Folder = strings.TrimSpace(req.Folder)
	return req
}

func newDocument(req UploadRequest) *document.Document {
	return &document.Document{
		OwnerID:        req.OwnerID,
		UserName:       req.UserName,
		Title:          req.Title,
		Folder:         req.Folder,
		Size:           req.Size,
		MimeType:       req.MimeType,
		URL:            req.URL,
		CreatedAtLocal: req.CreatedAtLocal,
	}
}

// clampLimit maps 0 to def and clamps the rest to 1..upper.
func clampLimit(limit, def, upper int) int {
	switch {
	case limit == 0:
		return def
	case limit < 1:
		return 1
	case limit > upper:
		return upper
	default:
		return limit
	}
}
