package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
	"github.com/AdrielTeles97/pdf-tracker/internal/metrics"
	"github.com/AdrielTeles97/pdf-tracker/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// accessLogRepository is the PostgreSQL implementation for analytics
type accessLogRepository struct {
	db *pgxpool.Pool
}

// NewAccessLogRepository creates a new PostgreSQL access-log repository
func NewAccessLogRepository(db *pgxpool.Pool) repository.AccessLogRepository {
	return &accessLogRepository{db: db}
}

// Create inserts a new access event into the database
func (r *accessLogRepository) Create(ctx context.Context, entry *domain.AccessLog) error {
	query := `
		INSERT INTO document_access_logs (
			document_id, timestamp, ip_address, user_agent, referrer,
			access_type, country, state, city, neighborhood, postal_code,
			latitude, longitude, timezone, network
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING id
	`

	start := time.Now()
	err := r.db.QueryRow(
		ctx,
		query,
		entry.DocumentID,
		entry.Timestamp,
		entry.IPAddress,
		entry.UserAgent,
		entry.Referrer,
		string(entry.AccessType),
		entry.Location.Country,
		entry.Location.State,
		entry.Location.City,
		entry.Location.Neighborhood,
		entry.Location.PostalCode,
		entry.Location.Latitude, // Can be nil (NULL in database)
		entry.Location.Longitude,
		entry.Location.Timezone,
		entry.Location.Network,
	).Scan(&entry.ID)
	metrics.ObserveQuery("create_access_log", start, err)

	if err != nil {
		return fmt.Errorf("failed to create access log: %w", err)
	}

	return nil
}

// ListByDocumentID retrieves access events for a document with pagination
func (r *accessLogRepository) ListByDocumentID(ctx context.Context, documentID string, limit, offset int) ([]*domain.AccessLog, error) {
	query := `
		SELECT id, document_id, timestamp, ip_address, user_agent, referrer,
		       access_type, country, state, city, neighborhood, postal_code,
		       latitude, longitude, timezone, network
		FROM document_access_logs
		WHERE document_id = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, documentID, limit, offset)
	metrics.ObserveQuery("list_access_logs", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get access logs: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AccessLog
	for rows.Next() {
		entry := &domain.AccessLog{}
		var accessType string
		err := rows.Scan(
			&entry.ID,
			&entry.DocumentID,
			&entry.Timestamp,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.Referrer,
			&accessType,
			&entry.Location.Country,
			&entry.Location.State,
			&entry.Location.City,
			&entry.Location.Neighborhood,
			&entry.Location.PostalCode,
			&entry.Location.Latitude,
			&entry.Location.Longitude,
			&entry.Location.Timezone,
			&entry.Location.Network,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access log: %w", err)
		}
		entry.AccessType = domain.AccessType(accessType)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating access logs: %w", err)
	}

	return entries, nil
}
