package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket implements client-side throttling using the TOKEN BUCKET algorithm
//
// HOW IT WORKS:
// 1. The bucket starts with N tokens
// 2. Tokens are refilled at a constant rate (e.g., 45 tokens/minute)
// 3. Each outbound call consumes 1 token
// 4. If no tokens are available the call is skipped
//
// The free geolocation lookup services enforce their own quotas
// (ip-api.com allows 45 requests/minute), so we throttle ourselves
// before they throttle us. In-process state is enough here: each
// provider client is a process-wide singleton.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration // time between single-token refills
	lastRefill time.Time
}

// NewTokenBucket creates a bucket holding maxTokens, refilled one token
// every refillRate. Example: NewTokenBucket(45, time.Minute/45) allows a
// sustained 45 calls per minute with bursts up to 45.
func NewTokenBucket(maxTokens int, refillRate time.Duration) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow reports whether one more call may go out, consuming a token if so.
func (b *TokenBucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Refill tokens based on elapsed time
	now := time.Now()
	elapsed := now.Sub(b.lastRefill)
	if b.refillRate > 0 {
		tokensToAdd := int(elapsed / b.refillRate)
		if tokensToAdd > 0 {
			b.tokens = min(b.maxTokens, b.tokens+tokensToAdd)
			b.lastRefill = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// Remaining returns the current token count, for tests and introspection.
func (b *TokenBucket) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens
}
