package domain

import "time"

// AccessType distinguishes the two kinds of recorded events
type AccessType string

const (
	AccessView     AccessType = "view"     // tracking endpoint hit (pixel/page/redirect)
	AccessDownload AccessType = "download" // PDF download
)

// Placeholder values used whenever geolocation resolution fails or is
// partial. Downstream rendering interpolates these fields into HTML and
// PDF output, so they must never be empty.
const (
	PlaceholderUnknown      = "Unknown"
	PlaceholderUnidentified = "Unidentified"
)

// Location is the best-effort geolocation of one visitor IP.
// All fields are optional; resolution can fail entirely, in which case
// UnknownLocation() stands in.
type Location struct {
	Country      string
	State        string
	City         string
	Neighborhood string // provider org/ISP field, kept under the original schema name
	PostalCode   string
	Latitude     *float64
	Longitude    *float64
	Timezone     string
	Network      string // ISP / network owner
}

// UnknownLocation returns the sentinel record used when every resolver
// backend fails. Explicit placeholder strings instead of empties keep
// string interpolation in templates and PDFs readable.
func UnknownLocation() *Location {
	return &Location{
		Country:      PlaceholderUnknown,
		State:        PlaceholderUnknown,
		City:         PlaceholderUnknown,
		Neighborhood: PlaceholderUnidentified,
		PostalCode:   PlaceholderUnidentified,
		Timezone:     PlaceholderUnknown,
		Network:      PlaceholderUnknown,
	}
}

// LocalLocation returns the fixed record for loopback/private addresses,
// which are never sent to a lookup provider.
func LocalLocation() *Location {
	loc := UnknownLocation()
	loc.City = "Localhost"
	loc.Network = "Local Network"
	return loc
}

// AccessLog represents a single view/download event for analytics
// This is a separate entity from Document because it represents a
// different concept: one Document has many AccessLogs (one-to-many)
type AccessLog struct {
	ID         int64      // Auto-incrementing ID
	DocumentID string     // Foreign key to Document
	Timestamp  time.Time  // When the access occurred (server-assigned)
	IPAddress  string     // Best-guess client IP (left-most proxy chain entry)
	UserAgent  string     // Browser/client information
	Referrer   string     // Where the visitor came from
	AccessType AccessType // view or download
	Location   Location   // Best-effort geolocation, placeholders on failure
}

// NewAccessLog creates a new access event
func NewAccessLog(documentID string, accessType AccessType, ipAddress, userAgent, referrer string) *AccessLog {
	return &AccessLog{
		DocumentID: documentID,
		Timestamp:  time.Now().UTC(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Referrer:   referrer,
		AccessType: accessType,
		Location:   *UnknownLocation(),
	}
}

// WithLocation adds geolocation data to the access event
func (a *AccessLog) WithLocation(loc *Location) *AccessLog {
	if loc != nil {
		a.Location = *loc
	}
	return a
}
