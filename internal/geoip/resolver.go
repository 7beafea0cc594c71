package geoip

import (
	"context"
	"log/slog"
	"net"

	"github.com/AdrielTeles97/pdf-tracker/internal/clientip"
	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
	"github.com/AdrielTeles97/pdf-tracker/internal/metrics"
)

// Provider defines the interface for a single geolocation lookup backend
// Implementations call external HTTP services; all are best-effort
//
// WHY USE AN INTERFACE?
// The source of truth for "where is this IP" is swappable: different
// hosted services, or a stub in tests. The resolver only cares about
// the fallback chain, not about any one provider's response shape.
type Provider interface {
	// Lookup returns geolocation data for the given IP address.
	// Returns an error if the lookup fails or the IP is invalid.
	Lookup(ctx context.Context, ip string) (*domain.Location, error)

	// Name returns the provider name for logging and metrics.
	Name() string
}

// LocationCache caches resolved locations keyed by IP so repeat visitors
// don't burn provider quota. A nil cache disables caching.
type LocationCache interface {
	GetLocation(ctx context.Context, ip string) (*domain.Location, error)
	SetLocation(ctx context.Context, ip string, loc *domain.Location) error
}

// Resolver maps an IP address to a best-effort location record.
//
// CONTRACT: Resolve never fails. It tries each configured provider in
// order and returns the first successful result; when everything fails
// it returns the all-"Unknown" sentinel so callers can proceed with
// logging and rendering. Loopback and private addresses short-circuit
// to a fixed local record without any network call.
type Resolver struct {
	providers []Provider
	cache     LocationCache
	logger    *slog.Logger
}

// NewResolver creates a resolver over an ordered provider chain.
// cache may be nil.
func NewResolver(logger *slog.Logger, cache LocationCache, providers ...Provider) *Resolver {
	return &Resolver{
		providers: providers,
		cache:     cache,
		logger:    logger,
	}
}

// Resolve returns a usable (possibly all-placeholder) location for ip.
// The returned record is never nil and its string fields are never empty.
func (r *Resolver) Resolve(ctx context.Context, ip string) *domain.Location {
	if isLocalIP(ip) {
		return domain.LocalLocation()
	}

	// Cache first: provider quotas are tight and visitor IPs repeat
	if r.cache != nil {
		if loc, err := r.cache.GetLocation(ctx, ip); err == nil && loc != nil {
			metrics.RecordGeoCacheHit()
			return loc
		}
		metrics.RecordGeoCacheMiss()
	}

	for _, p := range r.providers {
		loc, err := p.Lookup(ctx, ip)
		if err != nil {
			metrics.RecordGeoLookup(p.Name(), "error")
			r.logger.Warn("geolocation lookup failed",
				"provider", p.Name(),
				"ip", ip,
				"error", err,
			)
			continue
		}

		metrics.RecordGeoLookup(p.Name(), "success")
		sanitize(loc)

		if r.cache != nil {
			// Caching is best-effort, same as everything else here
			if err := r.cache.SetLocation(ctx, ip, loc); err != nil {
				r.logger.Warn("failed to cache location", "ip", ip, "error", err)
			}
		}
		return loc
	}

	// Every backend failed: degrade to the sentinel, never to the caller
	return domain.UnknownLocation()
}

// isLocalIP reports whether ip must not be sent to a lookup provider.
// Covers the loopback sentinel plus RFC 1918 / link-local ranges, which
// providers cannot geolocate anyway.
func isLocalIP(ip string) bool {
	if ip == clientip.Loopback {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		// Malformed values flow through to the providers, which reject
		// them; the chain then degrades to the sentinel record.
		return false
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast()
}

// sanitize backfills placeholder strings so no field interpolates empty
func sanitize(loc *domain.Location) {
	if loc.Country == "" {
		loc.Country = domain.PlaceholderUnknown
	}
	if loc.State == "" {
		loc.State = domain.PlaceholderUnknown
	}
	if loc.City == "" {
		loc.City = domain.PlaceholderUnknown
	}
	if loc.Neighborhood == "" {
		loc.Neighborhood = domain.PlaceholderUnidentified
	}
	if loc.PostalCode == "" {
		loc.PostalCode = domain.PlaceholderUnidentified
	}
	if loc.Timezone == "" {
		loc.Timezone = domain.PlaceholderUnknown
	}
	if loc.Network == "" {
		loc.Network = domain.PlaceholderUnknown
	}
}
