package document

import (
	"strings"
	"time"
)

// DefaultFolder is the folder assigned to documents uploaded without one.
const DefaultFolder = "Uncategorized"

// Status is the embedding lifecycle state of a document.
type Status string

const (
	// StatusPending means the AI pipeline has not reported back yet.
	StatusPending Status = "pending"
	// StatusReady means the embedding has been recorded.
	StatusReady Status = "ready"
	// StatusFailed means the pipeline reported an error for this document.
	StatusFailed Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReady, StatusFailed:
		return true
	}
	return false
}

// Document is an uploaded study document owned by a single user.
type Document struct {
	ID             string
	OwnerID        string
	UserName       string
	Title          string
	Folder         string
	Size           int64
	MimeType       string
	URL            string
	Content        string
	Embedding      []float64
	Status         Status
	CreatedAt      time.Time // UTC, assigned at insertion
	CreatedAtLocal string    // as rendered by the client, informational only
	UpdatedAt      time.Time
}

// Processed reports whether the AI pipeline has recorded an embedding.
func (d Document) Processed() bool {
	return d.Status == StatusReady
}

// Usable reports whether the document can take part in similarity ranking.
func (d Document) Usable() bool {
	return d.Processed() && len(d.Embedding) > 0
}

// FolderName returns the folder, falling back to DefaultFolder when blank.
func (d Document) FolderName() string {
	if f := strings.TrimSpace(d.Folder); f != "" {
		return f
	}
	return DefaultFolder
}
