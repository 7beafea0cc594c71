package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("  Invoice #1  ", " Ana Silva ")

	assert.Equal(t, "Invoice #1", doc.Title)
	assert.Equal(t, "Ana Silva", doc.RecipientName)
	assert.Nil(t, doc.RecipientEmail)
	assert.Zero(t, doc.AccessCount)
	assert.False(t, doc.CreatedAt.IsZero())

	// Tracking ids are UUIDs
	_, err := uuid.Parse(doc.TrackingID)
	require.NoError(t, err)
}

func TestNewDocument_UniqueTrackingIDs(t *testing.T) {
	a := NewDocument("Doc", "Ana")
	b := NewDocument("Doc", "Ana")
	assert.NotEqual(t, a.TrackingID, b.TrackingID)
}

func TestWithRecipientEmail(t *testing.T) {
	doc := NewDocument("Doc", "Ana").WithRecipientEmail(" ana@example.com ")
	require.NotNil(t, doc.RecipientEmail)
	assert.Equal(t, "ana@example.com", *doc.RecipientEmail)

	// Blank email stays nil
	blank := NewDocument("Doc", "Ana").WithRecipientEmail("   ")
	assert.Nil(t, blank.RecipientEmail)
}

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{"valid", NewDocument("Invoice #1", "Ana Silva"), nil},
		{"empty title", NewDocument("", "Ana"), ErrEmptyTitle},
		{"whitespace title", NewDocument("   ", "Ana"), ErrEmptyTitle},
		{"empty recipient", NewDocument("Invoice", ""), ErrEmptyRecipient},
		{"missing tracking id", &Document{Title: "Invoice", RecipientName: "Ana"}, ErrEmptyTrackingID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDocument_Filename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Invoice #1", "Invoice_#1.pdf"},
		{"Annual Report 2025", "Annual_Report_2025.pdf"},
		{"Single", "Single.pdf"},
		{"", "document.pdf"},
		{"  ", "document.pdf"},
	}

	for _, tt := range tests {
		doc := &Document{Title: tt.title}
		assert.Equal(t, tt.want, doc.Filename(), "title=%q", tt.title)
	}
}

func TestUnknownLocation_NoEmptyFields(t *testing.T) {
	loc := UnknownLocation()
	assert.Equal(t, PlaceholderUnknown, loc.Country)
	assert.Equal(t, PlaceholderUnknown, loc.State)
	assert.Equal(t, PlaceholderUnknown, loc.City)
	assert.Equal(t, PlaceholderUnidentified, loc.Neighborhood)
	assert.Equal(t, PlaceholderUnidentified, loc.PostalCode)
	assert.Equal(t, PlaceholderUnknown, loc.Timezone)
	assert.Equal(t, PlaceholderUnknown, loc.Network)
	assert.Nil(t, loc.Latitude)
	assert.Nil(t, loc.Longitude)
}

func TestLocalLocation(t *testing.T) {
	loc := LocalLocation()
	assert.Equal(t, "Localhost", loc.City)
	assert.Equal(t, "Local Network", loc.Network)
	assert.Equal(t, PlaceholderUnknown, loc.Country)
}

func TestNewAccessLog(t *testing.T) {
	entry := NewAccessLog("doc-1", AccessDownload, "203.0.113.9", "Mozilla/5.0", "https://mail.example.com")

	assert.Equal(t, "doc-1", entry.DocumentID)
	assert.Equal(t, AccessDownload, entry.AccessType)
	assert.Equal(t, "203.0.113.9", entry.IPAddress)
	assert.False(t, entry.Timestamp.IsZero())
	// Location starts at the sentinel until WithLocation overwrites it
	assert.Equal(t, PlaceholderUnknown, entry.Location.Country)

	entry.WithLocation(&Location{Country: "Brazil"})
	assert.Equal(t, "Brazil", entry.Location.Country)

	// nil location keeps the existing value
	entry.WithLocation(nil)
	assert.Equal(t, "Brazil", entry.Location.Country)
}
