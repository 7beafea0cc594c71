// Package pdf synthesizes downloadable PDF documents from document records.
//
// Every download renders fresh bytes: nothing is cached or persisted.
// Two single-page A4 layouts exist - a generic informational document and
// a payment-receipt styling - selected by configuration at startup.
package pdf

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
	"github.com/AdrielTeles97/pdf-tracker/internal/metrics"

	"github.com/go-pdf/fpdf"
)

// Layout selects which page styling Render produces
type Layout string

const (
	LayoutDocument Layout = "document" // generic informational document
	LayoutReceipt  Layout = "receipt"  // payment-receipt styling
)

// dateFormat renders dates as dd/mm/yyyy to match the rest of the
// user-facing output
const dateFormat = "02/01/2006"

// Renderer produces PDF bytes for a document record
type Renderer struct {
	layout Layout
}

// NewRenderer creates a renderer for the configured layout.
// Unknown layout values fall back to the generic document.
func NewRenderer(layout Layout) *Renderer {
	if layout != LayoutReceipt {
		layout = LayoutDocument
	}
	return &Renderer{layout: layout}
}

// Render produces a single-page A4 PDF for the document.
// Missing optional fields are substituted with placeholder text;
// rendering only fails on internal drawing errors.
func (r *Renderer) Render(doc *domain.Document) ([]byte, error) {
	title := doc.Title
	if title == "" {
		title = "Untitled Document"
	}
	recipient := doc.RecipientName
	if recipient == "" {
		recipient = domain.PlaceholderUnknown
	}

	p := fpdf.New("P", "mm", "A4", "")
	p.AddPage()

	switch r.layout {
	case LayoutReceipt:
		r.drawReceipt(p, title, recipient, doc.TrackingID)
	default:
		r.drawDocument(p, title, recipient, doc.TrackingID)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	metrics.RecordPDFRender()
	return buf.Bytes(), nil
}

// drawDocument lays out the generic informational variant
func (r *Renderer) drawDocument(p *fpdf.Fpdf, title, recipient, trackingID string) {
	p.SetFont("Helvetica", "B", 24)
	p.SetTextColor(0, 0, 0)
	p.Text(18, 25, title)

	p.SetFont("Helvetica", "", 12)
	p.Text(18, 40, fmt.Sprintf("Prepared for: %s", recipient))
	p.Text(18, 47, fmt.Sprintf("Date: %s", time.Now().Format(dateFormat)))

	p.SetFont("Helvetica", "", 11)
	p.Text(18, 62, "This document contains important information.")
	p.Text(18, 69, "Please read it carefully.")

	// Re-verification line near the bottom, styled like a link
	p.SetFont("Helvetica", "", 10)
	p.SetTextColor(0, 0, 255)
	p.Text(18, 262, "Click here to verify the latest version of this document")

	r.drawFooter(p, trackingID)
}

// drawReceipt lays out the payment-receipt variant with decorative
// financial filler content
func (r *Renderer) drawReceipt(p *fpdf.Fpdf, title, recipient, trackingID string) {
	p.SetFont("Helvetica", "B", 22)
	p.SetTextColor(0, 0, 0)
	p.Text(18, 25, "Payment Receipt")

	p.SetFont("Helvetica", "", 12)
	p.Text(18, 40, fmt.Sprintf("Reference: %s", title))
	p.Text(18, 47, fmt.Sprintf("Paid to: %s", recipient))
	p.Text(18, 54, fmt.Sprintf("Date: %s", time.Now().Format(dateFormat)))

	// Decorative amount and masked payer identifier. Neither value
	// means anything; the receipt exists to be opened and tracked.
	amount := 50 + rand.Float64()*4950
	p.SetFont("Helvetica", "B", 14)
	p.Text(18, 70, fmt.Sprintf("Amount: R$ %.2f", amount))

	p.SetFont("Helvetica", "", 11)
	p.Text(18, 80, fmt.Sprintf("Payer ID: %s", maskPayerID(generatePayerID())))

	p.SetFont("Helvetica", "I", 9)
	p.SetTextColor(90, 90, 90)
	p.Text(18, 255, "Issued electronically at the payer's registered location.")

	r.drawFooter(p, trackingID)
}

// drawFooter writes the grey tracking-id line shared by both layouts
func (r *Renderer) drawFooter(p *fpdf.Fpdf, trackingID string) {
	p.SetFont("Helvetica", "", 8)
	p.SetTextColor(128, 128, 128)
	p.Text(18, 280, fmt.Sprintf("Tracking ID: %s", trackingID))
}
