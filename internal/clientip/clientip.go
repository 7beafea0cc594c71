// Package clientip derives a best-guess client IP from proxy headers.
//
// The service usually sits behind a reverse proxy or CDN, so the TCP peer
// address is rarely the real visitor. We scan a fixed, ordered list of
// headers instead and fall back to loopback when nothing is present.
package clientip

import (
	"net/http"
	"strings"
)

// Loopback is the sentinel returned when no proxy header is present.
// Downstream geolocation treats it as "unknown/local" and never sends it
// to a lookup provider.
const Loopback = "127.0.0.1"

// headerPriority is the ordered list of headers to consult.
// x-forwarded-for is the de-facto standard; the rest cover CDNs and
// older proxies. First present header wins.
var headerPriority = []string{
	"X-Forwarded-For",
	"X-Real-Ip",
	"Cf-Connecting-Ip",
	"X-Client-Ip",
	"X-Forwarded",
	"Forwarded-For",
	"Forwarded",
}

// FromHeaders returns a single IP-like string for the request.
//
// Proxy chains arrive comma-joined ("client, proxy1, proxy2"); we keep the
// left-most entry, which is the presumed original client. The value is NOT
// validated as a syntactically correct IP - the source headers are
// client-controlled and consumers must tolerate malformed values.
func FromHeaders(h http.Header) string {
	for _, name := range headerPriority {
		value := h.Get(name)
		if value == "" {
			continue
		}
		if idx := strings.Index(value, ","); idx != -1 {
			value = value[:idx]
		}
		return strings.TrimSpace(value)
	}
	return Loopback
}

// FromRequest is a convenience wrapper around FromHeaders.
func FromRequest(r *http.Request) string {
	return FromHeaders(r.Header)
}
