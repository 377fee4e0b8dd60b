package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"studyhub/internal/document"
	"studyhub/internal/service"
	"studyhub/internal/service/mocks"
)

func sampleDocument() *document.Document {
	created := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	return &document.Document{
		ID:        "doc-1",
		OwnerID:   "u1",
		UserName:  "Ada",
		Title:     "Lecture",
		Folder:    "Math",
		Size:      2 * 1000 * 1000,
		MimeType:  "application/pdf",
		Status:    document.StatusPending,
		Embedding: []float64{},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestUploadHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockDocumentService(ctrl)

	svc.EXPECT().Upload(gomock.Any(), service.UploadRequest{
		OwnerID: "u1", UserName: "Ada", Title: "Lecture", Folder: "Math", Size: 2000000, MimeType: "application/pdf",
	}).Return(sampleDocument(), nil)

	body := UploadRequest{OwnerID: "u1", UserName: "Ada", Title: "Lecture", Folder: "Math", Size: 2000000, Type: "application/pdf"}
	w := httptest.NewRecorder()
	NewUploadHandler(svc).Create(w, httptest.NewRequest(http.MethodPost, "/api/uploads", jsonBody(t, body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var resp DocumentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "doc-1" || resp.SizeHuman != "2MB" || resp.Processed || resp.Status != "pending" {
		t.Errorf("response = %+v", resp)
	}
	if resp.CreatedAt != "2026-10-14T09:00:00Z" {
		t.Errorf("created_at = %s", resp.CreatedAt)
	}
}

func TestUploadHandler_CreateWithContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockDocumentService(ctrl)

	ready := sampleDocument()
	ready.Status = document.StatusReady
	ready.Embedding = []float64{0.1, 0.2, 0.3}
	svc.EXPECT().SaveProcessed(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req service.ProcessedUpload) (*document.Document, error) {
			if !req.Processed || len(req.Embedding) != 3 || req.Title != "Lecture" {
				return nil, fmt.Errorf("unexpected request %+v", req)
			}
			return ready, nil
		})

	body := `{"title":"Lecture","folder":"Math","content":"text","embedding":[0.1,0.2,0.3],"processed":true}`
	w := httptest.NewRecorder()
	NewUploadHandler(svc).CreateWithContent(w, httptest.NewRequest(http.MethodPost, "/api/uploads/with-content", jsonBody(t, body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var resp DocumentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Processed || resp.EmbeddingDims != 3 {
		t.Errorf("response = %+v", resp)
	}
}

func TestUploadHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		mockSetup  func(*mocks.MockDocumentService)
		wantStatus int
		wantCount  int
	}{
		{
			name:  "with limit and folder",
			query: "?owner_id=u1&folder=Math&limit=5",
			mockSetup: func(m *mocks.MockDocumentService) {
				m.EXPECT().List(gomock.Any(), service.ListUploadsRequest{OwnerID: "u1", Folder: "Math", Limit: 5}).
					Return([]document.Document{*sampleDocument()}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:       "bad limit",
			query:      "?owner_id=u1&limit=ten",
			mockSetup:  func(*mocks.MockDocumentService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "no documents",
			query: "?owner_id=u2",
			mockSetup: func(m *mocks.MockDocumentService) {
				m.EXPECT().List(gomock.Any(), service.ListUploadsRequest{OwnerID: "u2"}).Return([]document.Document{}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockDocumentService(ctrl)
			tt.mockSetup(svc)

			w := httptest.NewRecorder()
			NewUploadHandler(svc).List(w, httptest.NewRequest(http.MethodGet, "/api/uploads"+tt.query, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp ListUploadsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Uploads == nil || len(resp.Uploads) != tt.wantCount {
				t.Errorf("uploads = %+v, want %d", resp.Uploads, tt.wantCount)
			}
		})
	}
}

func TestUploadHandler_RecordEmbedding(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "recorded", wantStatus: http.StatusOK},
		{name: "already recorded", err: fmt.Errorf("%w: twice", service.ErrConflict), wantStatus: http.StatusConflict},
		{name: "unknown document", err: fmt.Errorf("%w: gone", service.ErrNotFound), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockDocumentService(ctrl)

			report := service.EmbeddingReport{Content: "text", Embedding: []float64{1, 0}}
			if tt.err != nil {
				svc.EXPECT().RecordEmbedding(gomock.Any(), "doc-1", report).Return(nil, tt.err)
			} else {
				doc := sampleDocument()
				doc.Status = document.StatusReady
				svc.EXPECT().RecordEmbedding(gomock.Any(), "doc-1", report).Return(doc, nil)
			}

			req := httptest.NewRequest(http.MethodPut, "/api/uploads/doc-1/embedding",
				jsonBody(t, EmbeddingCallbackRequest{Content: "text", Embedding: []float64{1, 0}}))
			w := httptest.NewRecorder()
			NewUploadHandler(svc).RecordEmbedding(w, withURLParam(req, "id", "doc-1"))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestUploadHandler_UpdateAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockDocumentService(ctrl)
	h := NewUploadHandler(svc)

	renamed := sampleDocument()
	renamed.Title = "Renamed"
	svc.EXPECT().UpdateMetadata(gomock.Any(), "doc-1", gomock.Not(gomock.Nil()), gomock.Nil()).Return(renamed, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/uploads/doc-1", jsonBody(t, `{"title":"Renamed"}`))
	w := httptest.NewRecorder()
	h.Update(w, withURLParam(req, "id", "doc-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Update status = %d, want 200", w.Code)
	}

	svc.EXPECT().Delete(gomock.Any(), "doc-1").Return(nil)
	svc.EXPECT().Delete(gomock.Any(), "doc-2").Return(fmt.Errorf("%w: gone", service.ErrNotFound))

	w = httptest.NewRecorder()
	h.Delete(w, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/uploads/doc-1", nil), "id", "doc-1"))
	if w.Code != http.StatusNoContent {
		t.Errorf("Delete status = %d, want 204", w.Code)
	}

	w = httptest.NewRecorder()
	h.Delete(w, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/uploads/doc-2", nil), "id", "doc-2"))
	if w.Code != http.StatusNotFound {
		t.Errorf("Delete(missing) status = %d, want 404", w.Code)
	}
}
