package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Note is a free-form markdown note written by a user.
type Note struct {
	ID             string
	OwnerID        string
	UserName       string
	Title          string
	Content        string
	CreatedAt      time.Time
	CreatedAtLocal string
	UpdatedAt      time.Time
}

// NoteStore defines the interface for note storage operations.
type NoteStore interface {
	// Create inserts a new note, assigning its ID and timestamps.
	Create(ctx context.Context, note *Note) error
	// GetByID gets a note by ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Note, error)
	// ListByOwner returns the notes of ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Note, error)
	// ListByUserName returns the notes written under userName, newest first.
	ListByUserName(ctx context.Context, userName string) ([]Note, error)
	// Delete deletes a note. Returns ErrNotFound if not found.
	Delete(ctx context.Context, id string) error
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db, now: time.Now}
}

// Create inserts a new note.
func (r *NoteRepo) Create(ctx context.Context, note *Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	note.CreatedAt = r.now().UTC()
	note.UpdatedAt = note.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, owner_id, user_name, title, content, created_at, created_at_local, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.OwnerID, note.UserName, note.Title, note.Content,
		formatTime(note.CreatedAt), note.CreatedAtLocal, formatTime(note.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// GetByID gets a note by ID. Returns ErrNotFound if not found.
func (r *NoteRepo) GetByID(ctx context.Context, id string) (*Note, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, owner_id, user_name, title, content, created_at, created_at_local, updated_at FROM notes WHERE id = ?",
		id,
	)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return note, err
}

// ListByOwner returns the notes of an owner, newest first.
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]Note, error) {
	return r.list(ctx, "owner_id", ownerID)
}

// ListByUserName returns the notes written under a user name, newest first.
func (r *NoteRepo) ListByUserName(ctx context.Context, userName string) ([]Note, error) {
	return r.list(ctx, "user_name", userName)
}

// Delete deletes a note. Returns ErrNotFound if not found.
func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return expectOneRow(res)
}

// list filters on a fixed column name chosen by the caller, never on user input.
func (r *NoteRepo) list(ctx context.Context, column, value string) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, owner_id, user_name, title, content, created_at, created_at_local, updated_at FROM notes WHERE "+
			column+" = ? ORDER BY created_at DESC, id DESC",
		value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	notes := []Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return notes, nil
}

func scanNote(s rowScanner) (*Note, error) {
	var note Note
	var createdAt, updatedAt string
	err := s.Scan(&note.ID, &note.OwnerID, &note.UserName, &note.Title, &note.Content,
		&createdAt, &note.CreatedAtLocal, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan note: %w", err)
	}
	if note.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if note.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &note, nil
}
