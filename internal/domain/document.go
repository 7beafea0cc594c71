package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document represents one trackable document in our system
// This is our "domain model" - it contains both data AND behavior (methods)
// The PDF itself is never stored: bytes are rendered lazily on each download
type Document struct {
	ID             string    // UUID for internal identification
	TrackingID     string    // Public opaque token used in /track and /pdf URLs
	Title          string    // Document title (also used for the download filename)
	RecipientName  string    // Who the document was prepared for
	RecipientEmail *string   // Optional recipient email (pointer = nullable)
	AccessCount    int64     // Cached number of recorded accesses
	CreatedAt      time.Time // When the document record was created
}

// Domain errors - defining errors as constants makes them testable
// and allows callers to check for specific error types
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrEmptyRecipient   = errors.New("recipient name cannot be empty")
	ErrEmptyTrackingID  = errors.New("tracking id is required")
)

// NewDocument is a constructor function that creates a new Document
// with a freshly generated tracking id and creation timestamp.
// Tracking ids are UUIDs: random enough to prevent casual enumeration.
func NewDocument(title, recipientName string) *Document {
	return &Document{
		TrackingID:    uuid.New().String(),
		Title:         strings.TrimSpace(title),
		RecipientName: strings.TrimSpace(recipientName),
		AccessCount:   0,
		CreatedAt:     time.Now().UTC(),
	}
}

// WithRecipientEmail is a builder method that sets the optional email
func (d *Document) WithRecipientEmail(email string) *Document {
	email = strings.TrimSpace(email)
	if email != "" {
		d.RecipientEmail = &email
	}
	return d
}

// Validate checks if the document fields are valid
// This is called before saving to the database
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(d.RecipientName) == "" {
		return ErrEmptyRecipient
	}
	if d.TrackingID == "" {
		return ErrEmptyTrackingID
	}
	return nil
}

// Filename returns the download filename for the rendered PDF.
// Spaces become underscores so the Content-Disposition header stays simple.
func (d *Document) Filename() string {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "document"
	}
	return strings.ReplaceAll(title, " ", "_") + ".pdf"
}

// DocumentSummary is one row of the dashboard listing:
// the document plus aggregates derived from its access logs
type DocumentSummary struct {
	Document
	LastAccess *time.Time // nil when the document was never accessed
}
