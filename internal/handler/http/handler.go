package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/AdrielTeles97/pdf-tracker/internal/clientip"
	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
	"github.com/AdrielTeles97/pdf-tracker/internal/service"
	"github.com/AdrielTeles97/pdf-tracker/pkg/validator"
)

// TrackingService interface defines the service methods needed by the handler
// Using an interface instead of concrete type allows for easy mocking in tests
type TrackingService interface {
	CreateDocument(ctx context.Context, title, recipientName, recipientEmail string) (*domain.Document, error)
	RecordAccess(ctx context.Context, trackingID string, accessType domain.AccessType, visitor service.Visitor) (*domain.Document, error)
	ListDocuments(ctx context.Context) ([]*domain.DocumentSummary, error)
	GetAccessHistory(ctx context.Context, trackingID string) (*domain.Document, []*domain.AccessLog, error)
}

// Renderer produces the PDF bytes for a document on demand
type Renderer interface {
	Render(doc *domain.Document) ([]byte, error)
}

// trackingPixel is a 1x1 transparent GIF. Served to email clients that
// fetch the tracking URL as an image.
var trackingPixel, _ = base64.StdEncoding.DecodeString(
	"R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7",
)

// Handler holds dependencies for HTTP handlers
// This is DEPENDENCY INJECTION - we pass dependencies through the constructor
// instead of using global variables or creating them inside handlers
type Handler struct {
	service   TrackingService
	renderer  Renderer
	logger    *slog.Logger
	baseURL   string // Public URL prefix for generated tracking links
	trackMode string // "pixel" or "page": default response for GET /track/{id}
}

// NewHandler creates a new HTTP handler
func NewHandler(svc TrackingService, renderer Renderer, logger *slog.Logger, baseURL, trackMode string) *Handler {
	return &Handler{
		service:   svc,
		renderer:  renderer,
		logger:    logger,
		baseURL:   baseURL,
		trackMode: trackMode,
	}
}

// Request/Response DTOs (Data Transfer Objects)
// These are separate from domain models because:
// 1. API contracts should be stable even if domain models change
// 2. We might want to expose/hide certain fields
// 3. We can add API-specific validation

type CreateDocumentRequest struct {
	Title          string `json:"title"`
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email,omitempty"`
}

type DocumentResponse struct {
	ID             string     `json:"id"`
	TrackingID     string     `json:"tracking_id"`
	Title          string     `json:"title"`
	RecipientName  string     `json:"recipient_name"`
	RecipientEmail string     `json:"recipient_email,omitempty"`
	AccessCount    int64      `json:"access_count"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccess     *time.Time `json:"last_access,omitempty"`
	TrackingURL    string     `json:"tracking_url"`
	DownloadURL    string     `json:"download_url"`
}

type AccessLogResponse struct {
	Timestamp  time.Time `json:"timestamp"`
	AccessType string    `json:"access_type"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Referrer   string    `json:"referrer,omitempty"`
	Country    string    `json:"country"`
	State      string    `json:"state"`
	City       string    `json:"city"`
	Network    string    `json:"network"`
}

type AccessHistoryResponse struct {
	Document DocumentResponse    `json:"document"`
	Accesses []AccessLogResponse `json:"accesses"`
}

func (h *Handler) documentResponse(doc *domain.Document, lastAccess *time.Time) DocumentResponse {
	resp := DocumentResponse{
		ID:            doc.ID,
		TrackingID:    doc.TrackingID,
		Title:         doc.Title,
		RecipientName: doc.RecipientName,
		AccessCount:   doc.AccessCount,
		CreatedAt:     doc.CreatedAt,
		LastAccess:    lastAccess,
		TrackingURL:   fmt.Sprintf("%s/track/%s", h.baseURL, doc.TrackingID),
		DownloadURL:   fmt.Sprintf("%s/pdf/%s", h.baseURL, doc.TrackingID),
	}
	if doc.RecipientEmail != nil {
		resp.RecipientEmail = *doc.RecipientEmail
	}
	return resp
}

func accessLogResponse(entry *domain.AccessLog) AccessLogResponse {
	return AccessLogResponse{
		Timestamp:  entry.Timestamp,
		AccessType: string(entry.AccessType),
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Referrer:   entry.Referrer,
		Country:    entry.Location.Country,
		State:      entry.Location.State,
		City:       entry.Location.City,
		Network:    entry.Location.Network,
	}
}

// visitorFrom extracts the request-side identity for access recording
func visitorFrom(r *http.Request) service.Visitor {
	return service.Visitor{
		IPAddress: clientip.FromRequest(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
}

// CreateDocument handles POST /api/v1/documents
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	defer r.Body.Close()

	if err := validator.ValidateTitle(req.Title); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateRecipientName(req.RecipientName); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateEmail(req.RecipientEmail); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.service.CreateDocument(r.Context(), req.Title, req.RecipientName, req.RecipientEmail)
	if err != nil {
		h.logger.Error("Failed to create document", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create document")
		return
	}

	respondSuccess(w, http.StatusCreated, h.documentResponse(doc, nil), "Document created successfully")
}

// ListDocuments handles GET /api/v1/documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListDocuments(r.Context())
	if err != nil {
		h.logger.Error("Failed to list documents", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	responses := make([]DocumentResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, h.documentResponse(&s.Document, s.LastAccess))
	}

	respondSuccess(w, http.StatusOK, responses, "")
}

// GetAccessHistory handles GET /api/v1/documents/{id}/accesses
func (h *Handler) GetAccessHistory(w http.ResponseWriter, r *http.Request) {
	trackingID := r.PathValue("id")

	doc, entries, err := h.service.GetAccessHistory(r.Context(), trackingID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		h.logger.Error("Failed to get access history", "tracking_id", trackingID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get access history")
		return
	}

	accesses := make([]AccessLogResponse, 0, len(entries))
	for _, entry := range entries {
		accesses = append(accesses, accessLogResponse(entry))
	}

	respondSuccess(w, http.StatusOK, AccessHistoryResponse{
		Document: h.documentResponse(doc, nil),
		Accesses: accesses,
	}, "")
}

// TrackDocument handles GET /track/{id}
//
// Three response shapes, all recording a "view" event first:
//   - ?redirect=<url>  302 to the validated target
//   - pixel mode       1x1 transparent GIF (for email open tracking)
//   - page mode        human-readable confirmation page
//
// Pixel responses NEVER fail: an email client probing a dead tracking
// URL still gets its image, errors are only logged.
func (h *Handler) TrackDocument(w http.ResponseWriter, r *http.Request) {
	trackingID := r.PathValue("id")
	pixelMode := h.trackMode == "pixel" || r.URL.Query().Has("pixel")

	doc, err := h.service.RecordAccess(r.Context(), trackingID, domain.AccessView, visitorFrom(r))
	if err != nil {
		if pixelMode {
			h.logger.Warn("Tracking pixel hit for unknown document", "tracking_id", trackingID, "error", err)
			h.servePixel(w)
			return
		}
		if errors.Is(err, domain.ErrDocumentNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		h.logger.Error("Failed to track access", "tracking_id", trackingID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to track access")
		return
	}

	if target := r.URL.Query().Get("redirect"); target != "" {
		if err := validator.ValidateRedirectURL(target); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		// 302, not 301: tracking URLs must never be cached as permanent
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	if pixelMode {
		h.servePixel(w)
		return
	}

	h.renderTrackPage(w, doc)
}

// servePixel writes the 1x1 GIF with cache-busting headers so every
// open reaches the server
func (h *Handler) servePixel(w http.ResponseWriter) {
	noCacheHeaders(w)
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Length", strconv.Itoa(len(trackingPixel)))
	w.WriteHeader(http.StatusOK)
	w.Write(trackingPixel)
}

// DownloadPDF handles GET /pdf/{id}
// The PDF is rendered fresh on every request, after the download event
// is recorded.
func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	trackingID := r.PathValue("id")

	doc, err := h.service.RecordAccess(r.Context(), trackingID, domain.AccessDownload, visitorFrom(r))
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			respondError(w, http.StatusNotFound, "Document not found")
			return
		}
		h.logger.Error("Failed to record download", "tracking_id", trackingID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to serve document")
		return
	}

	pdfBytes, err := h.renderer.Render(doc)
	if err != nil {
		h.logger.Error("Failed to render PDF", "tracking_id", trackingID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render document")
		return
	}

	noCacheHeaders(w)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// HealthCheck handles GET /health/live
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
