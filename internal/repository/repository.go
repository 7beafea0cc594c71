package repository

import (
	"context"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
)

// DocumentRepository defines the interface for document data access
// This is the "Repository Pattern" - it abstracts data storage
//
// WHY USE AN INTERFACE?
// 1. Testability: We can create mock implementations for testing
// 2. Flexibility: We can swap PostgreSQL for another store without
//    touching business logic
// 3. Dependency Inversion: High-level code doesn't depend on low-level
//    database details
type DocumentRepository interface {
	// Create inserts a new document and fills in the generated internal id
	Create(ctx context.Context, doc *domain.Document) error

	// GetByTrackingID retrieves a document by its public tracking id.
	// Returns domain.ErrDocumentNotFound when no row matches.
	GetByTrackingID(ctx context.Context, trackingID string) (*domain.Document, error)

	// IncrementAccessCount adds 1 to the cached access counter.
	// Done atomically in the database; concurrent calls may interleave
	// but never lose increments.
	IncrementAccessCount(ctx context.Context, trackingID string) error

	// ListWithSummary returns all documents newest-first, each with its
	// access count and last access timestamp, for the dashboard.
	ListWithSummary(ctx context.Context) ([]*domain.DocumentSummary, error)
}

// AccessLogRepository defines the interface for analytics data access
type AccessLogRepository interface {
	// Create inserts a new access event
	Create(ctx context.Context, entry *domain.AccessLog) error

	// ListByDocumentID retrieves access events for one document,
	// newest first, with pagination
	ListByDocumentID(ctx context.Context, documentID string, limit, offset int) ([]*domain.AccessLog, error)
}
