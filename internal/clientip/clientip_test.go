package clientip

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromHeaders_XForwardedForWins(t *testing.T) {
	h := http.Header{}
	h.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	h.Set("X-Real-Ip", "9.9.9.9")

	// x-forwarded-for has priority, and only the left-most entry counts
	assert.Equal(t, "1.2.3.4", FromHeaders(h))
}

func TestFromHeaders_FallsThroughPriorityList(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"x-real-ip", "X-Real-Ip", "9.9.9.9", "9.9.9.9"},
		{"cf-connecting-ip", "Cf-Connecting-Ip", "8.8.8.8", "8.8.8.8"},
		{"x-client-ip", "X-Client-Ip", "7.7.7.7", "7.7.7.7"},
		{"x-forwarded", "X-Forwarded", "6.6.6.6", "6.6.6.6"},
		{"forwarded-for", "Forwarded-For", "5.5.5.5", "5.5.5.5"},
		{"forwarded", "Forwarded", "4.4.4.4", "4.4.4.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			h.Set(tt.header, tt.value)
			assert.Equal(t, tt.want, FromHeaders(h))
		})
	}
}

func TestFromHeaders_TrimsWhitespace(t *testing.T) {
	h := http.Header{}
	h.Set("X-Forwarded-For", "  1.2.3.4 , 5.6.7.8")
	assert.Equal(t, "1.2.3.4", FromHeaders(h))
}

func TestFromHeaders_NoHeadersReturnsLoopback(t *testing.T) {
	assert.Equal(t, Loopback, FromHeaders(http.Header{}))
}

func TestFromHeaders_MalformedValuePassesThrough(t *testing.T) {
	// No validation by contract - downstream must tolerate garbage
	h := http.Header{}
	h.Set("X-Forwarded-For", "not-an-ip")
	assert.Equal(t, "not-an-ip", FromHeaders(h))
}
