package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
	"github.com/AdrielTeles97/pdf-tracker/internal/metrics"
	"github.com/AdrielTeles97/pdf-tracker/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// documentRepository is the PostgreSQL implementation of repository.DocumentRepository
// The lowercase name means it's private to this package
// We return it as the interface type for abstraction
type documentRepository struct {
	db *pgxpool.Pool // Connection pool for database connections
}

// NewDocumentRepository creates a new PostgreSQL document repository
func NewDocumentRepository(db *pgxpool.Pool) repository.DocumentRepository {
	return &documentRepository{db: db}
}

// Create inserts a new document into the database
func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	// RETURNING id gives us the generated UUID after insertion
	query := `
		INSERT INTO documents (
			tracking_id, title, recipient_name, recipient_email,
			access_count, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id
	`

	start := time.Now()
	err := r.db.QueryRow(
		ctx,
		query,
		doc.TrackingID,
		doc.Title,
		doc.RecipientName,
		doc.RecipientEmail, // Can be nil (NULL in database)
		doc.AccessCount,
		doc.CreatedAt,
	).Scan(&doc.ID)
	metrics.ObserveQuery("create_document", start, err)

	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// GetByTrackingID retrieves a document by its public tracking id
func (r *documentRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Document, error) {
	query := `
		SELECT id, tracking_id, title, recipient_name, recipient_email,
		       access_count, created_at
		FROM documents
		WHERE tracking_id = $1
	`

	doc := &domain.Document{}
	start := time.Now()
	err := r.db.QueryRow(ctx, query, trackingID).Scan(
		&doc.ID,
		&doc.TrackingID,
		&doc.Title,
		&doc.RecipientName,
		&doc.RecipientEmail, // pgx handles NULL -> nil conversion automatically
		&doc.AccessCount,
		&doc.CreatedAt,
	)
	metrics.ObserveQuery("get_document", start, err)

	if err != nil {
		// "no rows" is a distinguishable not-found, everything else is a
		// genuine storage fault; the handler maps them to 404 vs 500
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// IncrementAccessCount atomically increases the cached access counter
// ATOMIC OPERATION: a single UPDATE prevents lost increments when
// multiple requests hit the same document simultaneously
func (r *documentRepository) IncrementAccessCount(ctx context.Context, trackingID string) error {
	query := `
		UPDATE documents
		SET access_count = access_count + 1
		WHERE tracking_id = $1
	`

	start := time.Now()
	result, err := r.db.Exec(ctx, query, trackingID)
	metrics.ObserveQuery("increment_access_count", start, err)
	if err != nil {
		return fmt.Errorf("failed to increment access count: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}

	return nil
}

// ListWithSummary returns dashboard rows: every document plus its count
// and last access, newest documents first
func (r *documentRepository) ListWithSummary(ctx context.Context) ([]*domain.DocumentSummary, error) {
	query := `
		SELECT d.id, d.tracking_id, d.title, d.recipient_name,
		       d.recipient_email, d.access_count, d.created_at,
		       MAX(l.timestamp) AS last_access
		FROM documents d
		LEFT JOIN document_access_logs l ON l.document_id = d.id
		GROUP BY d.id, d.tracking_id, d.title, d.recipient_name,
		         d.recipient_email, d.access_count, d.created_at
		ORDER BY d.created_at DESC
	`

	start := time.Now()
	rows, err := r.db.Query(ctx, query)
	metrics.ObserveQuery("list_documents", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close() // Always close rows to free resources

	var summaries []*domain.DocumentSummary
	for rows.Next() {
		s := &domain.DocumentSummary{}
		var lastAccess *time.Time
		err := rows.Scan(
			&s.ID,
			&s.TrackingID,
			&s.Title,
			&s.RecipientName,
			&s.RecipientEmail,
			&s.AccessCount,
			&s.CreatedAt,
			&lastAccess,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document summary: %w", err)
		}
		s.LastAccess = lastAccess
		summaries = append(summaries, s)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return summaries, nil
}

// InitDB initializes the database connection pool
// This is called once at application startup
func InitDB(ctx context.Context, dsn string, maxConns, minConns int, maxLifetime time.Duration) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure connection pool settings
	config.MaxConns = int32(maxConns)
	config.MinConns = int32(minConns)
	config.MaxConnLifetime = maxLifetime
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
