package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_ConsumesTokens(t *testing.T) {
	b := NewTokenBucket(3, time.Hour) // refill too slow to matter

	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
	assert.False(t, b.Allow(), "bucket should be empty after 3 calls")
	assert.Equal(t, 0, b.Remaining())
}

func TestTokenBucket_Refills(t *testing.T) {
	b := NewTokenBucket(1, 10*time.Millisecond)

	assert.True(t, b.Allow())
	assert.False(t, b.Allow())

	time.Sleep(25 * time.Millisecond)
	assert.True(t, b.Allow(), "token should have been refilled")
}

func TestTokenBucket_RefillCapsAtMax(t *testing.T) {
	b := NewTokenBucket(2, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
	assert.False(t, b.Allow(), "refill must not exceed bucket capacity")
}
