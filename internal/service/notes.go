package service

import (
	"context"
	"strings"

	"studyhub/internal/contextutil"
	"studyhub/internal/storage"
)

// CreateNoteRequest is a new markdown note.
type CreateNoteRequest struct {
	OwnerID        string
	UserName       string
	Title          string
	Content        string
	CreatedAtLocal string
}

// NoteService manages user notes.
type NoteService struct {
	store storage.NoteStore
}

// NewNoteService creates a new NoteService.
func NewNoteService(store storage.NoteStore) *NoteService {
	return &NoteService{store: store}
}

// Create validates and stores a note.
func (s *NoteService) Create(ctx context.Context, req CreateNoteRequest) (*storage.Note, error) {
	note := &storage.Note{
		OwnerID:        strings.TrimSpace(req.OwnerID),
		UserName:       strings.TrimSpace(req.UserName),
		Title:          strings.TrimSpace(req.Title),
		Content:        req.Content,
		CreatedAtLocal: req.CreatedAtLocal,
	}
	if err := required("user_name", note.UserName); err != nil {
		return nil, err
	}
	if err := required("title", note.Title); err != nil {
		return nil, err
	}
	if err := required("content", strings.TrimSpace(note.Content)); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, note); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to save note", "error", err)
		return nil, fromStorage(err)
	}
	return note, nil
}

// Get returns a note by ID.
func (s *NoteService) Get(ctx context.Context, id string) (*storage.Note, error) {
	note, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fromStorage(err)
	}
	return note, nil
}

// List returns notes newest first, by owner when ownerID is set and by user name otherwise.
func (s *NoteService) List(ctx context.Context, ownerID, userName string) ([]storage.Note, error) {
	ownerID = strings.TrimSpace(ownerID)
	userName = strings.TrimSpace(userName)

	var (
		notes []storage.Note
		err   error
	)
	switch {
	case ownerID != "":
		notes, err = s.store.ListByOwner(ctx, ownerID)
	case userName != "":
		notes, err = s.store.ListByUserName(ctx, userName)
	default:
		return nil, &ValidationError{Field: "owner_id", Message: "owner_id or user_name is required"}
	}
	if err != nil {
		return nil, fromStorage(err)
	}
	return notes, nil
}

// Delete removes a note.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fromStorage(err)
	}
	return nil
}
