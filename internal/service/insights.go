package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_repository.go -package=mocks studyhub/internal/service DocumentRepository
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_insights_service.go -package=mocks -mock_names=InsightsService=MockInsightsService studyhub/internal/service InsightsService

import (
	"context"
	"errors"
	"strings"
	"time"

	"studyhub/internal/analytics"
	"studyhub/internal/contextutil"
	"studyhub/internal/document"
	"studyhub/internal/recommend"
	"studyhub/internal/storage"
)

// DocumentRepository is the read-only document access the insights need.
// This interface is defined from the service layer's perspective (consumer-first).
type DocumentRepository interface {
	// GetByOwner gets a document only if it belongs to ownerID.
	GetByOwner(ctx context.Context, ownerID, id string) (*document.Document, error)
	// ListByOwner returns every document of ownerID in a stable order.
	ListByOwner(ctx context.Context, ownerID string) ([]document.Document, error)
	// ListCreatedSince returns documents of ownerID created at or after since.
	ListCreatedSince(ctx context.Context, ownerID string, since time.Time) ([]document.Document, error)
}

// RecommendRequest identifies the document to find related documents for.
type RecommendRequest struct {
	OwnerID string
	DocID   string
}

// InsightsService computes recommendations and upload analytics for an owner.
type InsightsService interface {
	// Recommend returns the documents most similar to the requested one.
	// A target that is missing, foreign or not yet processed yields an empty list.
	Recommend(ctx context.Context, req RecommendRequest) ([]recommend.ScoredMatch, error)
	// WeeklyUploads returns per-day upload counts for the current week.
	WeeklyUploads(ctx context.Context, ownerID string) (analytics.WeeklyUploads, error)
	// FolderAnalytics ranks the owner's folders by size.
	FolderAnalytics(ctx context.Context, ownerID string) (analytics.FolderReport, error)
}

// insightsService implements InsightsService.
type insightsService struct {
	repo DocumentRepository
	now  func() time.Time
}

// NewInsightsService creates a new InsightsService. A nil now defaults to time.Now.
func NewInsightsService(repo DocumentRepository, now func() time.Time) InsightsService {
	if now == nil {
		now = time.Now
	}
	return &insightsService{repo: repo, now: now}
}

// Recommend ranks the owner's other documents against the target.
func (s *insightsService) Recommend(ctx context.Context, req RecommendRequest) ([]recommend.ScoredMatch, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.DocID = strings.TrimSpace(req.DocID)
	if err := required("owner_id", req.OwnerID); err != nil {
		return nil, err
	}
	if err := required("doc_id", req.DocID); err != nil {
		return nil, err
	}

	target, err := s.repo.GetByOwner(ctx, req.OwnerID, req.DocID)
	if errors.Is(err, storage.ErrNotFound) {
		logger.DebugContext(ctx, "recommend target not found", "owner_id", req.OwnerID, "doc_id", req.DocID)
		return []recommend.ScoredMatch{}, nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to load recommend target", "doc_id", req.DocID, "error", err)
		return nil, fromStorage(err)
	}
	if !target.Usable() {
		logger.DebugContext(ctx, "recommend target not ready", "doc_id", target.ID, "status", target.Status)
		return []recommend.ScoredMatch{}, nil
	}

	candidates, err := s.repo.ListByOwner(ctx, req.OwnerID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list recommend candidates", "owner_id", req.OwnerID, "error", err)
		return nil, fromStorage(err)
	}

	matches := recommend.Rank(*target, candidates)

	attrs := []any{"doc_id", target.ID, "candidates", len(candidates), "matches", len(matches)}
	if len(matches) > 0 {
		attrs = append(attrs, "top_score", matches[0].Similarity)
	}
	logger.DebugContext(ctx, "recommendations ranked", attrs...)

	return matches, nil
}

// WeeklyUploads counts this week's uploads per day.
func (s *insightsService) WeeklyUploads(ctx context.Context, ownerID string) (analytics.WeeklyUploads, error) {
	ownerID = strings.TrimSpace(ownerID)
	if err := required("owner_id", ownerID); err != nil {
		return analytics.WeeklyUploads{}, err
	}

	now := s.now()
	docs, err := s.repo.ListCreatedSince(ctx, ownerID, analytics.WeekStart(now))
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list weekly uploads", "owner_id", ownerID, "error", err)
		return analytics.WeeklyUploads{}, fromStorage(err)
	}
	return analytics.WeeklyCounts(ownerID, now, docs), nil
}

// FolderAnalytics summarises the owner's folders.
func (s *insightsService) FolderAnalytics(ctx context.Context, ownerID string) (analytics.FolderReport, error) {
	ownerID = strings.TrimSpace(ownerID)
	if err := required("owner_id", ownerID); err != nil {
		return analytics.FolderReport{}, err
	}

	docs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list folder documents", "owner_id", ownerID, "error", err)
		return analytics.FolderReport{}, fromStorage(err)
	}
	return analytics.AnalyzeFolders(ownerID, docs), nil
}
