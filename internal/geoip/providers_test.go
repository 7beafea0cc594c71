package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPAPICoProvider_Lookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/203.0.113.9/json/", r.URL.Path)
		assert.Equal(t, lookupUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"country_name": "Brazil",
			"region": "Para",
			"city": "Belem",
			"postal": "66000-000",
			"latitude": -1.4558,
			"longitude": -48.4902,
			"timezone": "America/Belem",
			"org": "Example Telecom"
		}`))
	}))
	defer server.Close()

	provider := NewIPAPICoProvider(time.Second, server.URL)

	loc, err := provider.Lookup(context.Background(), "203.0.113.9")

	require.NoError(t, err)
	assert.Equal(t, "Brazil", loc.Country)
	assert.Equal(t, "Para", loc.State)
	assert.Equal(t, "Belem", loc.City)
	assert.Equal(t, "66000-000", loc.PostalCode)
	assert.Equal(t, "Example Telecom", loc.Network)
	assert.Equal(t, "Example Telecom", loc.Neighborhood)
	require.NotNil(t, loc.Latitude)
	assert.InDelta(t, -1.4558, *loc.Latitude, 0.0001)
	assert.Equal(t, "America/Belem", loc.Timezone)
}

func TestIPAPICoProvider_Lookup_ErrorPayload(t *testing.T) {
	// ipapi.co reports failures as 200 + {"error": true}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": true, "reason": "RateLimited"}`))
	}))
	defer server.Close()

	provider := NewIPAPICoProvider(time.Second, server.URL)

	loc, err := provider.Lookup(context.Background(), "203.0.113.9")

	assert.Error(t, err)
	assert.Nil(t, loc)
	assert.Contains(t, err.Error(), "RateLimited")
}

func TestIPAPICoProvider_Lookup_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewIPAPICoProvider(time.Second, server.URL)

	loc, err := provider.Lookup(context.Background(), "203.0.113.9")

	assert.Error(t, err)
	assert.Nil(t, loc)
	assert.Contains(t, err.Error(), "429")
}

func TestIPAPICoProvider_Lookup_InvalidIP(t *testing.T) {
	provider := NewIPAPICoProvider(time.Second, "http://unused.invalid")

	loc, err := provider.Lookup(context.Background(), "definitely-not-an-ip")

	assert.Error(t, err)
	assert.Nil(t, loc)
	assert.Contains(t, err.Error(), "invalid IP address")
}

func TestIPAPIProvider_Lookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/203.0.113.9", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "fields=")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"country": "Brazil",
			"regionName": "Para",
			"city": "Belem",
			"zip": "66000-000",
			"lat": -1.4558,
			"lon": -48.4902,
			"timezone": "America/Belem",
			"isp": "Example Telecom"
		}`))
	}))
	defer server.Close()

	provider := NewIPAPIProvider(time.Second, server.URL)

	loc, err := provider.Lookup(context.Background(), "203.0.113.9")

	require.NoError(t, err)
	assert.Equal(t, "Brazil", loc.Country)
	assert.Equal(t, "Para", loc.State)
	assert.Equal(t, "Belem", loc.City)
	assert.Equal(t, "Example Telecom", loc.Network)
	require.NotNil(t, loc.Longitude)
}

func TestIPAPIProvider_Lookup_FailStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "fail", "message": "reserved range"}`))
	}))
	defer server.Close()

	provider := NewIPAPIProvider(time.Second, server.URL)

	loc, err := provider.Lookup(context.Background(), "203.0.113.9")

	assert.Error(t, err)
	assert.Nil(t, loc)
	assert.Contains(t, err.Error(), "reserved range")
}

func TestProviderNames(t *testing.T) {
	assert.Equal(t, "ipapi.co", NewIPAPICoProvider(0, "").Name())
	assert.Equal(t, "ip-api.com", NewIPAPIProvider(0, "").Name())
}
