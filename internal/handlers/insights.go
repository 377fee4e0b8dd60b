package handlers

import (
	"net/http"

	"studyhub/internal/analytics"
	"studyhub/internal/recommend"
	"studyhub/internal/service"
)

// InsightsHandler handles HTTP requests for recommendations and upload analytics.
type InsightsHandler struct {
	insights service.InsightsService
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(insights service.InsightsService) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

// RecommendRequest represents the HTTP request payload for recommendations.
type RecommendRequest struct {
	OwnerID string `json:"owner_id"`
	DocID   string `json:"doc_id"`
}

// Recommendation is one related document.
type Recommendation struct {
	DocID      string  `json:"doc_id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	Snippet    string  `json:"snippet"`
}

// RecommendResponse represents the HTTP response payload for recommendations.
type RecommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// WeeklyUploadsResponse is the current week's upload series, Monday first.
type WeeklyUploadsResponse struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// FolderValue is a folder and its document count.
type FolderValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// FolderAnalyticsResponse ranks folders by size.
type FolderAnalyticsResponse struct {
	Folders       []FolderValue `json:"folders"`
	BiggestFolder string        `json:"biggest_folder"`
	BiggestCount  int           `json:"biggest_count"`
	DaysLeft      int           `json:"days_left"`
}

// Recommend handles POST /api/recommend.
func (h *InsightsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	matches, err := h.insights.Recommend(ctx, service.RecommendRequest{OwnerID: req.OwnerID, DocID: req.DocID})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to compute recommendations")
		return
	}

	writeJSON(ctx, w, http.StatusOK, RecommendResponse{Recommendations: toRecommendations(matches)})
}

// WeeklyUploads handles GET /api/analytics/uploads.
func (h *InsightsHandler) WeeklyUploads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	weekly, err := h.insights.WeeklyUploads(ctx, r.URL.Query().Get("owner_id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to compute upload analytics")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toWeeklyResponse(weekly))
}

// FolderAnalytics handles GET /api/analytics/folders.
func (h *InsightsHandler) FolderAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.insights.FolderAnalytics(ctx, r.URL.Query().Get("owner_id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to compute folder analytics")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toFolderResponse(report))
}

func toRecommendations(matches []recommend.ScoredMatch) []Recommendation {
	out := make([]Recommendation, 0, len(matches))
	for _, m := range matches {
		out = append(out, Recommendation{
			DocID:      m.DocumentID,
			Title:      m.Title,
			Similarity: m.Similarity,
			Snippet:    m.Snippet,
		})
	}
	return out
}

func toWeeklyResponse(w analytics.WeeklyUploads) WeeklyUploadsResponse {
	return WeeklyUploadsResponse{Labels: w.Labels[:], Data: w.Data[:]}
}

func toFolderResponse(report analytics.FolderReport) FolderAnalyticsResponse {
	folders := make([]FolderValue, 0, len(report.Folders))
	for _, f := range report.Folders {
		folders = append(folders, FolderValue{Name: f.Name, Value: f.Count})
	}
	return FolderAnalyticsResponse{
		Folders:       folders,
		BiggestFolder: report.BiggestFolder,
		BiggestCount:  report.BiggestCount,
		DaysLeft:      report.DaysLeft,
	}
}
