package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studyhub/internal/contextutil"
	"studyhub/internal/document"
)

// ListDocumentsParams filters a newest-first document listing.
type ListDocumentsParams struct {
	OwnerID string
	Folder  string // optional, exact match
	Limit   int
}

// MetadataUpdate carries optional document metadata changes. Nil fields are left unchanged.
type MetadataUpdate struct {
	Title  *string
	Folder *string
}

// EmbeddingResult is the outcome reported by the AI pipeline for one document.
type EmbeddingResult struct {
	Content   string
	Embedding []float64
	Status    document.Status
}

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Create inserts a new document. ID and timestamps are assigned when empty.
	Create(ctx context.Context, doc *document.Document) error
	// GetByID gets a document by ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*document.Document, error)
	// GetByOwner gets a document only if it belongs to ownerID. Returns ErrNotFound otherwise.
	GetByOwner(ctx context.Context, ownerID, id string) (*document.Document, error)
	// List returns the newest documents matching params.
	List(ctx context.Context, params ListDocumentsParams) ([]document.Document, error)
	// ListByOwner returns every document of ownerID in creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]document.Document, error)
	// ListCreatedSince returns documents of ownerID created at or after since, in creation order.
	ListCreatedSince(ctx context.Context, ownerID string, since time.Time) ([]document.Document, error)
	// CountByOwner returns the number of documents of ownerID.
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	// UpdateMetadata changes title and/or folder. Returns ErrNotFound if not found.
	UpdateMetadata(ctx context.Context, id string, update MetadataUpdate) (*document.Document, error)
	// RecordEmbedding stores the pipeline result for a pending document.
	// Returns ErrNotFound if not found and ErrConflict if a result was already recorded.
	RecordEmbedding(ctx context.Context, id string, result EmbeddingResult) (*document.Document, error)
	// Delete deletes a document. Returns ErrNotFound if not found.
	Delete(ctx context.Context, id string) error
}

const documentColumns = `id, owner_id, user_name, title, folder, size, mime_type, url, content,
	embedding, status, created_at, created_at_local, updated_at`

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db, now: time.Now}
}

// Create inserts a new document.
func (r *DocumentRepo) Create(ctx context.Context, doc *document.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if strings.TrimSpace(doc.Folder) == "" {
		doc.Folder = document.DefaultFolder
	}
	if doc.Status == "" {
		doc.Status = document.StatusPending
	}
	if doc.Embedding == nil {
		doc.Embedding = []float64{}
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = r.now().UTC()
	}
	doc.UpdatedAt = doc.CreatedAt

	embedding, err := json.Marshal(doc.Embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.OwnerID, doc.UserName, doc.Title, doc.Folder, doc.Size, doc.MimeType, doc.URL,
		doc.Content, string(embedding), string(doc.Status),
		formatTime(doc.CreatedAt), doc.CreatedAtLocal, formatTime(doc.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "document created",
		"id", doc.ID, "owner_id", doc.OwnerID, "status", doc.Status, "embedding_dims", len(doc.Embedding))
	return nil
}

// GetByID gets a document by ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*document.Document, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", id)
	return scanDocumentRow(row)
}

// GetByOwner gets a document scoped to its owner. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByOwner(ctx context.Context, ownerID, id string) (*document.Document, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = ? AND owner_id = ?",
		id, ownerID,
	)
	return scanDocumentRow(row)
}

// List returns the newest documents for an owner, optionally within one folder.
func (r *DocumentRepo) List(ctx context.Context, params ListDocumentsParams) ([]document.Document, error) {
	query := "SELECT " + documentColumns + " FROM documents WHERE owner_id = ?"
	args := []any{params.OwnerID}
	if params.Folder != "" {
		query += " AND folder = ?"
		args = append(args, params.Folder)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if params.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, params.Limit)
	}
	return r.query(ctx, query, args...)
}

// ListByOwner returns every document of an owner, oldest first.
// Ordering is deterministic so that downstream ties resolve the same way on every call.
func (r *DocumentRepo) ListByOwner(ctx context.Context, ownerID string) ([]document.Document, error) {
	return r.query(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE owner_id = ? ORDER BY created_at, id",
		ownerID,
	)
}

// ListCreatedSince returns an owner's documents created at or after since, oldest first.
func (r *DocumentRepo) ListCreatedSince(ctx context.Context, ownerID string, since time.Time) ([]document.Document, error) {
	return r.query(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE owner_id = ? AND created_at >= ? ORDER BY created_at, id",
		ownerID, formatTime(since),
	)
}

// CountByOwner returns the number of documents of an owner.
func (r *DocumentRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE owner_id = ?", ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// UpdateMetadata changes the title and/or folder of a document.
func (r *DocumentRepo) UpdateMetadata(ctx context.Context, id string, update MetadataUpdate) (*document.Document, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(r.now())}
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*update.Title))
	}
	if update.Folder != nil {
		folder := strings.TrimSpace(*update.Folder)
		if folder == "" {
			folder = document.DefaultFolder
		}
		sets = append(sets, "folder = ?")
		args = append(args, folder)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, "UPDATE documents SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// RecordEmbedding stores content, embedding and final status for a pending document.
// The pipeline reports back once per document; later reports are rejected with ErrConflict.
func (r *DocumentRepo) RecordEmbedding(ctx context.Context, id string, result EmbeddingResult) (*document.Document, error) {
	if result.Status != document.StatusReady && result.Status != document.StatusFailed {
		return nil, fmt.Errorf("invalid embedding status %q", result.Status)
	}
	vec := result.Embedding
	if vec == nil {
		vec = []float64{}
	}
	embedding, err := json.Marshal(vec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET content = ?, embedding = ?, status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		result.Content, string(embedding), string(result.Status), formatTime(r.now()),
		id, string(document.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record embedding: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		// Distinguish a missing document from one that already has a result
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return nil, ErrConflict
		}
		return nil, err
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "embedding recorded",
		"id", id, "status", result.Status, "embedding_dims", len(vec))
	return r.GetByID(ctx, id)
}

// Delete deletes a document. Returns ErrNotFound if not found.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return expectOneRow(res)
}

func (r *DocumentRepo) query(ctx context.Context, query string, args ...any) ([]document.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	docs := []document.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

func scanDocumentRow(row *sql.Row) (*document.Document, error) {
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return doc, err
}

func scanDocument(s rowScanner) (*document.Document, error) {
	var (
		doc                  document.Document
		status               string
		embedding            string
		createdAt, updatedAt string
	)
	err := s.Scan(&doc.ID, &doc.OwnerID, &doc.UserName, &doc.Title, &doc.Folder, &doc.Size,
		&doc.MimeType, &doc.URL, &doc.Content, &embedding, &status,
		&createdAt, &doc.CreatedAtLocal, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	doc.Status = document.Status(status)
	if err := json.Unmarshal([]byte(embedding), &doc.Embedding); err != nil {
		return nil, fmt.Errorf("failed to decode embedding for document %s: %w", doc.ID, err)
	}
	if doc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &doc, nil
}
