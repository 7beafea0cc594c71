package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
	"github.com/AdrielTeles97/pdf-tracker/internal/ratelimit"
)

const lookupUserAgent = "PDFTracker/1.0"

// defaultTimeout bounds every outbound lookup so a slow provider can
// never stall the tracking response.
const defaultTimeout = 3 * time.Second

// ========================================
// ipapi.co provider (primary)
// ========================================

// IPAPICoProvider implements Provider using https://ipapi.co.
// Free tier, no API key; ~1,000 lookups/day.
type IPAPICoProvider struct {
	client  *http.Client
	bucket  *ratelimit.TokenBucket
	baseURL string
}

// ipapiCoResponse represents the JSON response from ipapi.co
type ipapiCoResponse struct {
	CountryName string   `json:"country_name"`
	Region      string   `json:"region"`
	City        string   `json:"city"`
	Postal      string   `json:"postal"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Timezone    string   `json:"timezone"`
	Org         string   `json:"org"`
	Error       bool     `json:"error"`
	Reason      string   `json:"reason"`
}

// NewIPAPICoProvider creates the primary lookup provider.
// An empty baseURL selects the public service; tests point it at a stub.
func NewIPAPICoProvider(timeout time.Duration, baseURL string) *IPAPICoProvider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if baseURL == "" {
		baseURL = "https://ipapi.co"
	}
	return &IPAPICoProvider{
		client: &http.Client{Timeout: timeout},
		// ipapi.co free tier allows roughly 1000/day; keep bursts polite
		bucket:  ratelimit.NewTokenBucket(30, 2*time.Second),
		baseURL: baseURL,
	}
}

func (p *IPAPICoProvider) Name() string { return "ipapi.co" }

// Lookup queries ipapi.co for geolocation data.
func (p *IPAPICoProvider) Lookup(ctx context.Context, ip string) (*domain.Location, error) {
	if err := validateLookup(p.bucket, ip); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/json/", p.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", lookupUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query ipapi.co: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ipapi.co returned status %d", resp.StatusCode)
	}

	var result ipapiCoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode ipapi.co response: %w", err)
	}
	if result.Error {
		return nil, fmt.Errorf("ipapi.co lookup failed: %s", result.Reason)
	}

	return &domain.Location{
		Country:      result.CountryName,
		State:        result.Region,
		City:         result.City,
		Neighborhood: result.Org,
		PostalCode:   result.Postal,
		Latitude:     result.Latitude,
		Longitude:    result.Longitude,
		Timezone:     result.Timezone,
		Network:      result.Org,
	}, nil
}

// ========================================
// ip-api.com provider (fallback)
// ========================================

// IPAPIProvider implements Provider using the free ip-api.com service.
// Rate limit: 45 requests per minute on the free tier, no API key.
type IPAPIProvider struct {
	client  *http.Client
	bucket  *ratelimit.TokenBucket
	baseURL string
}

// ipAPIResponse represents the JSON response from ip-api.com
type ipAPIResponse struct {
	Status     string   `json:"status"`  // "success" or "fail"
	Message    string   `json:"message"` // error message when status is "fail"
	Country    string   `json:"country"`
	RegionName string   `json:"regionName"`
	City       string   `json:"city"`
	Zip        string   `json:"zip"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	Timezone   string   `json:"timezone"`
	ISP        string   `json:"isp"`
}

// NewIPAPIProvider creates the fallback lookup provider.
func NewIPAPIProvider(timeout time.Duration, baseURL string) *IPAPIProvider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if baseURL == "" {
		baseURL = "http://ip-api.com/json"
	}
	return &IPAPIProvider{
		client: &http.Client{Timeout: timeout},
		// ip-api.com allows 45 requests per minute on the free tier
		bucket:  ratelimit.NewTokenBucket(45, time.Minute/45),
		baseURL: baseURL,
	}
}

func (p *IPAPIProvider) Name() string { return "ip-api.com" }

// Lookup queries ip-api.com for geolocation data.
func (p *IPAPIProvider) Lookup(ctx context.Context, ip string) (*domain.Location, error) {
	if err := validateLookup(p.bucket, ip); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?fields=status,message,country,regionName,city,zip,lat,lon,timezone,isp", p.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query ip-api.com: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ip-api.com returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode ip-api.com response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("ip-api.com lookup failed: %s", result.Message)
	}

	return &domain.Location{
		Country:      result.Country,
		State:        result.RegionName,
		City:         result.City,
		Neighborhood: result.ISP,
		PostalCode:   result.Zip,
		Latitude:     result.Lat,
		Longitude:    result.Lon,
		Timezone:     result.Timezone,
		Network:      result.ISP,
	}, nil
}

// validateLookup enforces the client-side quota and rejects values that
// are not IP addresses before any network traffic happens.
func validateLookup(bucket *ratelimit.TokenBucket, ip string) error {
	if !bucket.Allow() {
		return fmt.Errorf("client-side rate limit exceeded")
	}
	if net.ParseIP(ip) == nil {
		return fmt.Errorf("invalid IP address: %s", ip)
	}
	return nil
}
