package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==================== MOCKS ====================

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Document, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) IncrementAccessCount(ctx context.Context, trackingID string) error {
	args := m.Called(ctx, trackingID)
	return args.Error(0)
}

func (m *MockDocumentRepository) ListWithSummary(ctx context.Context) ([]*domain.DocumentSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DocumentSummary), args.Error(1)
}

// MockAccessLogRepository is a mock implementation of AccessLogRepository
type MockAccessLogRepository struct {
	mock.Mock
}

func (m *MockAccessLogRepository) Create(ctx context.Context, entry *domain.AccessLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAccessLogRepository) ListByDocumentID(ctx context.Context, documentID string, limit, offset int) ([]*domain.AccessLog, error) {
	args := m.Called(ctx, documentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccessLog), args.Error(1)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetDocument(ctx context.Context, trackingID string) (*domain.Document, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockCache) SetDocument(ctx context.Context, trackingID string, doc *domain.Document) error {
	args := m.Called(ctx, trackingID, doc)
	return args.Error(0)
}

// stubResolver returns a fixed location for every lookup
type stubResolver struct {
	loc *domain.Location
}

func (r *stubResolver) Resolve(ctx context.Context, ip string) *domain.Location {
	if r.loc != nil {
		return r.loc
	}
	return domain.UnknownLocation()
}

func newTestService(docRepo *MockDocumentRepository, logRepo *MockAccessLogRepository, cache *MockCache, resolver LocationResolver) *TrackingService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTrackingService(docRepo, logRepo, cache, resolver, logger)
}

// ==================== TESTS ====================

func TestCreateDocument_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	mockDocRepo.On("Create", ctx, mock.AnythingOfType("*domain.Document")).Return(nil)
	mockCache.On("SetDocument", ctx, mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)

	// Act
	doc, err := service.CreateDocument(ctx, "Invoice #42", "Ana Silva", "ana@example.com")

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Equal(t, "Invoice #42", doc.Title)
	assert.Equal(t, "Ana Silva", doc.RecipientName)
	require.NotNil(t, doc.RecipientEmail)
	assert.Equal(t, "ana@example.com", *doc.RecipientEmail)
	assert.NotEmpty(t, doc.TrackingID)
	mockDocRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestCreateDocument_ValidationFails(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	// Act
	doc, err := service.CreateDocument(ctx, "", "Ana Silva", "")

	// Assert
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Nil(t, doc)
	mockDocRepo.AssertNotCalled(t, "Create")
}

func TestGetDocument_CacheHit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	cachedDoc := &domain.Document{
		ID:            "doc-1",
		TrackingID:    "abc-123",
		Title:         "Report",
		RecipientName: "Bob",
	}

	// Mock: cache hit
	mockCache.On("GetDocument", ctx, "abc-123").Return(cachedDoc, nil)

	// Act
	doc, err := service.GetDocument(ctx, "abc-123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cachedDoc, doc)
	mockCache.AssertExpectations(t)
	// Database should NOT be called (cache hit)
	mockDocRepo.AssertNotCalled(t, "GetByTrackingID")
}

func TestGetDocument_CacheMiss_DatabaseHit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	dbDoc := &domain.Document{
		ID:            "doc-1",
		TrackingID:    "abc-123",
		Title:         "Report",
		RecipientName: "Bob",
	}

	// Mock: cache miss, database hit
	mockCache.On("GetDocument", ctx, "abc-123").Return(nil, nil)
	mockDocRepo.On("GetByTrackingID", ctx, "abc-123").Return(dbDoc, nil)
	mockCache.On("SetDocument", ctx, "abc-123", dbDoc).Return(nil)

	// Act
	doc, err := service.GetDocument(ctx, "abc-123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, dbDoc, doc)
	mockCache.AssertExpectations(t)
	mockDocRepo.AssertExpectations(t)
}

func TestGetDocument_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	mockCache.On("GetDocument", ctx, "missing").Return(nil, nil)
	mockDocRepo.On("GetByTrackingID", ctx, "missing").Return(nil, domain.ErrDocumentNotFound)

	// Act
	doc, err := service.GetDocument(ctx, "missing")

	// Assert
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.Nil(t, doc)
}

func TestRecordAccess_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	resolved := &domain.Location{
		Country: "Brazil",
		State:   "PA",
		City:    "Belem",
	}
	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{loc: resolved})

	doc := &domain.Document{
		ID:            "doc-1",
		TrackingID:    "abc-123",
		Title:         "Report",
		RecipientName: "Bob",
	}

	mockCache.On("GetDocument", ctx, "abc-123").Return(doc, nil)
	mockLogRepo.On("Create", ctx, mock.AnythingOfType("*domain.AccessLog")).Return(nil)
	mockDocRepo.On("IncrementAccessCount", ctx, "abc-123").Return(nil)

	// Act
	got, err := service.RecordAccess(ctx, "abc-123", domain.AccessView, Visitor{
		IPAddress: "203.0.113.9",
		UserAgent: "Mozilla/5.0",
		Referrer:  "https://mail.example.com",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	mockLogRepo.AssertExpectations(t)
	mockDocRepo.AssertExpectations(t)

	// The persisted entry carries the visitor identity and the resolved location
	entry := mockLogRepo.Calls[0].Arguments.Get(1).(*domain.AccessLog)
	assert.Equal(t, "doc-1", entry.DocumentID)
	assert.Equal(t, domain.AccessView, entry.AccessType)
	assert.Equal(t, "203.0.113.9", entry.IPAddress)
	assert.Equal(t, "Brazil", entry.Location.Country)
	assert.Equal(t, "Belem", entry.Location.City)
}

func TestRecordAccess_DocumentNotFound_NothingLogged(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	mockCache.On("GetDocument", ctx, "missing").Return(nil, nil)
	mockDocRepo.On("GetByTrackingID", ctx, "missing").Return(nil, domain.ErrDocumentNotFound)

	// Act
	got, err := service.RecordAccess(ctx, "missing", domain.AccessView, Visitor{IPAddress: "203.0.113.9"})

	// Assert
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.Nil(t, got)
	// No log row and no counter bump for unknown tracking ids
	mockLogRepo.AssertNotCalled(t, "Create")
	mockDocRepo.AssertNotCalled(t, "IncrementAccessCount")
}

func TestRecordAccess_LogInsertFails_CallerStillSucceeds(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	doc := &domain.Document{
		ID:            "doc-1",
		TrackingID:    "abc-123",
		Title:         "Report",
		RecipientName: "Bob",
	}

	mockCache.On("GetDocument", ctx, "abc-123").Return(doc, nil)
	mockLogRepo.On("Create", ctx, mock.AnythingOfType("*domain.AccessLog")).Return(errors.New("insert failed"))
	mockDocRepo.On("IncrementAccessCount", ctx, "abc-123").Return(nil)

	// Act
	got, err := service.RecordAccess(ctx, "abc-123", domain.AccessDownload, Visitor{IPAddress: "203.0.113.9"})

	// Assert: analytics failure never surfaces to the visitor
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestRecordAccess_IncrementFails_CallerStillSucceeds(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	doc := &domain.Document{
		ID:            "doc-1",
		TrackingID:    "abc-123",
		Title:         "Report",
		RecipientName: "Bob",
	}

	mockCache.On("GetDocument", ctx, "abc-123").Return(doc, nil)
	mockLogRepo.On("Create", ctx, mock.AnythingOfType("*domain.AccessLog")).Return(nil)
	mockDocRepo.On("IncrementAccessCount", ctx, "abc-123").Return(errors.New("update failed"))

	// Act
	got, err := service.RecordAccess(ctx, "abc-123", domain.AccessView, Visitor{IPAddress: "203.0.113.9"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestListDocuments(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	summaries := []*domain.DocumentSummary{
		{Document: domain.Document{ID: "doc-1", Title: "Report"}},
		{Document: domain.Document{ID: "doc-2", Title: "Invoice"}},
	}
	mockDocRepo.On("ListWithSummary", ctx).Return(summaries, nil)

	// Act
	got, err := service.ListDocuments(ctx)

	// Assert
	require.NoError(t, err)
	assert.Len(t, got, 2)
	mockDocRepo.AssertExpectations(t)
}

func TestGetAccessHistory(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockDocRepo := new(MockDocumentRepository)
	mockLogRepo := new(MockAccessLogRepository)
	mockCache := new(MockCache)

	service := newTestService(mockDocRepo, mockLogRepo, mockCache, &stubResolver{})

	doc := &domain.Document{
		ID:            "doc-1",
		TrackingID:    "abc-123",
		Title:         "Report",
		RecipientName: "Bob",
	}
	entries := []*domain.AccessLog{
		{ID: 2, DocumentID: "doc-1", AccessType: domain.AccessDownload},
		{ID: 1, DocumentID: "doc-1", AccessType: domain.AccessView},
	}

	mockCache.On("GetDocument", ctx, "abc-123").Return(doc, nil)
	mockLogRepo.On("ListByDocumentID", ctx, "doc-1", 100, 0).Return(entries, nil)

	// Act
	gotDoc, gotEntries, err := service.GetAccessHistory(ctx, "abc-123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, doc, gotDoc)
	assert.Len(t, gotEntries, 2)
	mockLogRepo.AssertExpectations(t)
}
