package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"studyhub/internal/document"
	"studyhub/internal/service"
	"studyhub/internal/service/mocks"
	"studyhub/internal/storage"
)

func init() {
	// Silence slog.Default() used by the service layer
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// wednesday is 2026-10-14 15:30 UTC.
var wednesday = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return wednesday }

func readyDoc(id, owner string, vec ...float64) document.Document {
	return document.Document{
		ID:        id,
		OwnerID:   owner,
		Title:     "doc " + id,
		Content:   "content of " + id,
		Embedding: vec,
		Status:    document.StatusReady,
	}
}

func TestInsightsService_Recommend(t *testing.T) {
	ctx := context.Background()
	a := readyDoc("A", "u1", 1, 0)
	b := readyDoc("B", "u1", 0.9, 0.1)
	c := readyDoc("C", "u1", 0, 1)
	pending := document.Document{ID: "P", OwnerID: "u1", Title: "pending", Status: document.StatusPending}

	tests := []struct {
		name      string
		req       service.RecommendRequest
		mockSetup func(repo *mocks.MockDocumentRepository)
		wantIDs   []string
		wantErr   error
	}{
		{
			name: "ranks related documents",
			req:  service.RecommendRequest{OwnerID: "u1", DocID: "A"},
			mockSetup: func(repo *mocks.MockDocumentRepository) {
				repo.EXPECT().GetByOwner(gomock.Any(), "u1", "A").Return(&a, nil)
				repo.EXPECT().ListByOwner(gomock.Any(), "u1").Return([]document.Document{a, b, c}, nil)
			},
			wantIDs: []string{"B"},
		},
		{
			name:      "missing owner",
			req:       service.RecommendRequest{DocID: "A"},
			mockSetup: func(*mocks.MockDocumentRepository) {},
			wantErr:   service.ErrInvalidInput,
		},
		{
			name:      "missing doc id",
			req:       service.RecommendRequest{OwnerID: "u1", DocID: "  "},
			mockSetup: func(*mocks.MockDocumentRepository) {},
			wantErr:   service.ErrInvalidInput,
		},
		{
			name: "target not found or foreign",
			req:  service.RecommendRequest{OwnerID: "u2", DocID: "A"},
			mockSetup: func(repo *mocks.MockDocumentRepository) {
				repo.EXPECT().GetByOwner(gomock.Any(), "u2", "A").Return(nil, storage.ErrNotFound)
			},
			wantIDs: []string{},
		},
		{
			name: "target not processed",
			req:  service.RecommendRequest{OwnerID: "u1", DocID: "P"},
			mockSetup: func(repo *mocks.MockDocumentRepository) {
				repo.EXPECT().GetByOwner(gomock.Any(), "u1", "P").Return(&pending, nil)
			},
			wantIDs: []string{},
		},
		{
			name: "lookup failure",
			req:  service.RecommendRequest{OwnerID: "u1", DocID: "A"},
			mockSetup: func(repo *mocks.MockDocumentRepository) {
				repo.EXPECT().GetByOwner(gomock.Any(), "u1", "A").Return(nil, errors.New("database is locked"))
			},
			wantErr: service.ErrRepository,
		},
		{
			name: "candidate listing failure",
			req:  service.RecommendRequest{OwnerID: "u1", DocID: "A"},
			mockSetup: func(repo *mocks.MockDocumentRepository) {
				repo.EXPECT().GetByOwner(gomock.Any(), "u1", "A").Return(&a, nil)
				repo.EXPECT().ListByOwner(gomock.Any(), "u1").Return(nil, errors.New("database is locked"))
			},
			wantErr: service.ErrRepository,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockDocumentRepository(ctrl)
			tt.mockSetup(repo)

			svc := service.NewInsightsService(repo, fixedClock)
			got, err := svc.Recommend(ctx, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Recommend() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Recommend() unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("Recommend() returned nil slice, want non-nil")
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Recommend() returned %d matches, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].DocumentID != id {
					t.Errorf("Recommend()[%d] = %s, want %s", i, got[i].DocumentID, id)
				}
			}
		})
	}
}

func TestInsightsService_WeeklyUploads(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().ListCreatedSince(gomock.Any(), "u1", monday).Return([]document.Document{
		{ID: "1", OwnerID: "u1", CreatedAt: monday.Add(2 * time.Hour)},
		{ID: "2", OwnerID: "u1", CreatedAt: wednesday.Add(-time.Hour)},
		{ID: "3", OwnerID: "u1", CreatedAt: wednesday},
	}, nil)

	svc := service.NewInsightsService(repo, fixedClock)
	got, err := svc.WeeklyUploads(context.Background(), "u1")
	if err != nil {
		t.Fatalf("WeeklyUploads() error = %v", err)
	}

	if got.Labels[0] != "2026-10-12" || got.Labels[6] != "2026-10-18" {
		t.Errorf("WeeklyUploads() labels = %v", got.Labels)
	}
	want := [7]int{1, 0, 2, 0, 0, 0, 0}
	if got.Data != want {
		t.Errorf("WeeklyUploads() data = %v, want %v", got.Data, want)
	}
}

func TestInsightsService_WeeklyUploads_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)
	svc := service.NewInsightsService(repo, fixedClock)

	if _, err := svc.WeeklyUploads(context.Background(), ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("WeeklyUploads(\"\") error = %v, want ErrInvalidInput", err)
	}

	repo.EXPECT().ListCreatedSince(gomock.Any(), "u1", gomock.Any()).Return(nil, errors.New("boom"))
	if _, err := svc.WeeklyUploads(context.Background(), "u1"); !errors.Is(err, service.ErrRepository) {
		t.Errorf("WeeklyUploads() error = %v, want ErrRepository", err)
	}
}

func TestInsightsService_FolderAnalytics(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)

	repo.EXPECT().ListByOwner(gomock.Any(), "u1").Return([]document.Document{
		{ID: "1", OwnerID: "u1", Folder: "Physics", CreatedAt: wednesday},
		{ID: "2", OwnerID: "u1", Folder: "Math", CreatedAt: wednesday},
		{ID: "3", OwnerID: "u1", Folder: "Math", CreatedAt: wednesday.Add(time.Hour)},
	}, nil)

	svc := service.NewInsightsService(repo, fixedClock)
	got, err := svc.FolderAnalytics(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FolderAnalytics() error = %v", err)
	}
	if got.BiggestFolder != "Math" || got.BiggestCount != 2 || got.DaysLeft != 0 {
		t.Errorf("FolderAnalytics() = %+v", got)
	}
	if len(got.Folders) != 2 || got.Folders[1].Name != "Physics" {
		t.Errorf("FolderAnalytics() folders = %+v", got.Folders)
	}

	if _, err := svc.FolderAnalytics(context.Background(), " "); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("FolderAnalytics(blank) error = %v, want ErrInvalidInput", err)
	}
}

func TestInsightsService_FolderAnalytics_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDocumentRepository(ctrl)
	repo.EXPECT().ListByOwner(gomock.Any(), "u1").Return([]document.Document{}, nil)

	got, err := service.NewInsightsService(repo, nil).FolderAnalytics(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FolderAnalytics() error = %v", err)
	}
	if got.BiggestFolder != document.DefaultFolder || got.BiggestCount != 0 || got.DaysLeft != 0 || len(got.Folders) != 0 {
		t.Errorf("FolderAnalytics() = %+v, want empty report", got)
	}
}
