package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
	"github.com/AdrielTeles97/pdf-tracker/internal/metrics"
	"github.com/AdrielTeles97/pdf-tracker/internal/repository"
)

// Cache interface for document caching
// Using an interface allows for easy testing and swapping implementations
type Cache interface {
	GetDocument(ctx context.Context, trackingID string) (*domain.Document, error)
	SetDocument(ctx context.Context, trackingID string, doc *domain.Document) error
}

// LocationResolver maps a visitor IP to a best-effort location.
// Implementations never fail: they degrade to a placeholder record.
type LocationResolver interface {
	Resolve(ctx context.Context, ip string) *domain.Location
}

// Visitor carries the request-side identity of one access
type Visitor struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// TrackingService handles business logic for documents and access events
// This is the SERVICE LAYER - it sits between HTTP handlers and repositories
type TrackingService struct {
	docRepo  repository.DocumentRepository
	logRepo  repository.AccessLogRepository
	cache    Cache
	resolver LocationResolver
	logger   *slog.Logger
}

// NewTrackingService creates a new tracking service
func NewTrackingService(
	docRepo repository.DocumentRepository,
	logRepo repository.AccessLogRepository,
	cache Cache,
	resolver LocationResolver,
	logger *slog.Logger,
) *TrackingService {
	return &TrackingService{
		docRepo:  docRepo,
		logRepo:  logRepo,
		cache:    cache,
		resolver: resolver,
		logger:   logger,
	}
}

// CreateDocument runs the generate flow: a document row with a fresh
// tracking id. No PDF bytes are produced here - rendering happens
// lazily on every download.
func (s *TrackingService) CreateDocument(ctx context.Context, title, recipientName, recipientEmail string) (*domain.Document, error) {
	doc := domain.NewDocument(title, recipientName).WithRecipientEmail(recipientEmail)

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	// Store in cache for fast access
	// We don't fail if caching fails - it's not critical
	if err := s.cache.SetDocument(ctx, doc.TrackingID, doc); err != nil {
		s.logger.Warn("failed to cache document", "tracking_id", doc.TrackingID, "error", err)
	}

	metrics.RecordDocumentCreated()
	return doc, nil
}

// GetDocument retrieves a document by tracking id
// Implements CACHE-ASIDE PATTERN for the hot tracking path
func (s *TrackingService) GetDocument(ctx context.Context, trackingID string) (*domain.Document, error) {
	// STEP 1: Check cache first
	cached, err := s.cache.GetDocument(ctx, trackingID)
	if err == nil && cached != nil {
		return cached, nil
	}

	// STEP 2: Cache miss - get from database
	doc, err := s.docRepo.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	// STEP 3: Store in cache for next time
	if err := s.cache.SetDocument(ctx, trackingID, doc); err != nil {
		s.logger.Warn("failed to cache document", "tracking_id", trackingID, "error", err)
	}

	return doc, nil
}

// RecordAccess looks up the document and appends an access-log row with
// the visitor's identity and resolved location, then increments the
// document's cached counter.
//
// ORDERING INVARIANT: the log row is written only after the lookup
// succeeds, so every log entry references an existing document.
//
// RELIABILITY CONTRACT: once the document exists, nothing here fails
// the caller. Geolocation degrades to placeholders; log-insert and
// counter-increment failures are logged and counted but swallowed -
// the visitor must still receive their pixel, page, or PDF.
func (s *TrackingService) RecordAccess(ctx context.Context, trackingID string, accessType domain.AccessType, visitor Visitor) (*domain.Document, error) {
	// Location resolution is independent of the document lookup, so the
	// provider round trip runs concurrently with the database read.
	locCh := make(chan *domain.Location, 1)
	go func() {
		locCh <- s.resolver.Resolve(ctx, visitor.IPAddress)
	}()

	doc, err := s.GetDocument(ctx, trackingID)
	if err != nil {
		// Not found or storage fault: nothing is logged
		return nil, err
	}

	loc := <-locCh

	entry := domain.NewAccessLog(doc.ID, accessType, visitor.IPAddress, visitor.UserAgent, visitor.Referrer).
		WithLocation(loc)

	if err := s.logRepo.Create(ctx, entry); err != nil {
		// Analytics is important but not critical for the response.
		// This is a design decision: availability > consistency here.
		metrics.RecordAccessFailure()
		s.logger.Error("failed to record access event",
			"tracking_id", trackingID,
			"access_type", accessType,
			"error", err,
		)
	} else {
		metrics.RecordAccess(string(accessType))
	}

	if err := s.docRepo.IncrementAccessCount(ctx, trackingID); err != nil {
		s.logger.Error("failed to increment access count",
			"tracking_id", trackingID,
			"error", err,
		)
	}

	return doc, nil
}

// ListDocuments returns the dashboard listing: every document with its
// access count and last access timestamp
func (s *TrackingService) ListDocuments(ctx context.Context) ([]*domain.DocumentSummary, error) {
	summaries, err := s.docRepo.ListWithSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return summaries, nil
}

// GetAccessHistory returns one document and its recent access events
// (newest first, capped at 100) for the drill-down view
func (s *TrackingService) GetAccessHistory(ctx context.Context, trackingID string) (*domain.Document, []*domain.AccessLog, error) {
	doc, err := s.GetDocument(ctx, trackingID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.logRepo.ListByDocumentID(ctx, doc.ID, 100, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get access logs: %w", err)
	}

	return doc, entries, nil
}
