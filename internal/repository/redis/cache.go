package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
	"github.com/AdrielTeles97/pdf-tracker/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache provides caching operations using Redis
// This implements the CACHE-ASIDE PATTERN:
// 1. Check cache first
// 2. If miss, get from database (or lookup provider)
// 3. Store in cache for next time
//
// Two keyspaces live here: "doc:{trackingID}" for document records on
// the hot tracking path, and "geo:{ip}" for resolved locations, which
// spares the free lookup providers' quotas on repeat visitors.
type Cache struct {
	client *redis.Client
	docTTL time.Duration
	geoTTL time.Duration
}

// NewCache creates a new Redis cache
func NewCache(client *redis.Client, docTTL, geoTTL time.Duration) *Cache {
	return &Cache{
		client: client,
		docTTL: docTTL,
		geoTTL: geoTTL,
	}
}

// GetDocument retrieves a document from cache
// Returns nil if not found (cache miss)
func (c *Cache) GetDocument(ctx context.Context, trackingID string) (*domain.Document, error) {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	}()

	key := fmt.Sprintf("doc:%s", trackingID)

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		// Cache miss - not an error, just not found
		metrics.RecordCacheMiss()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	metrics.RecordCacheHit()

	var doc domain.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached document: %w", err)
	}

	return &doc, nil
}

// SetDocument stores a document in cache
func (c *Cache) SetDocument(ctx context.Context, trackingID string, doc *domain.Document) error {
	start := time.Now()
	defer func() {
		metrics.CacheOperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	}()

	key := fmt.Sprintf("doc:%s", trackingID)

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	// TTL keeps the cached access_count from drifting too far from the
	// database counter
	if err := c.client.Set(ctx, key, data, c.docTTL).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// GetLocation retrieves a resolved location from cache.
// Satisfies geoip.LocationCache. Returns nil on miss.
func (c *Cache) GetLocation(ctx context.Context, ip string) (*domain.Location, error) {
	key := fmt.Sprintf("geo:%s", ip)

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var loc domain.Location
	if err := json.Unmarshal([]byte(data), &loc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached location: %w", err)
	}

	return &loc, nil
}

// SetLocation stores a resolved location in cache
func (c *Cache) SetLocation(ctx context.Context, ip string, loc *domain.Location) error {
	key := fmt.Sprintf("geo:%s", ip)

	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.geoTTL).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// InitRedis creates a new Redis client
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		// Connection pool settings
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
