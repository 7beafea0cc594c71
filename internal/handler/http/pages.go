package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/AdrielTeles97/pdf-tracker/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const pageTimeFormat = "02/01/2006 15:04"

// View models for HTML pages. Timestamps are pre-formatted so the
// templates stay logic-free.

type documentView struct {
	TrackingID    string
	Title         string
	RecipientName string
	AccessCount   int64
	CreatedAt     string
	LastAccess    string
	TrackingURL   string
	DownloadURL   string
}

type accessView struct {
	Timestamp  string
	AccessType string
	IPAddress  string
	UserAgent  string
	Referrer   string
	Location   string
	Network    string
}

type dashboardData struct {
	Documents []documentView
}

type documentPageData struct {
	Document documentView
	Accesses []accessView
}

type trackPageData struct {
	Title       string
	DownloadURL string
}

func (h *Handler) documentView(doc *domain.Document, lastAccess *time.Time) documentView {
	v := documentView{
		TrackingID:    doc.TrackingID,
		Title:         doc.Title,
		RecipientName: doc.RecipientName,
		AccessCount:   doc.AccessCount,
		CreatedAt:     doc.CreatedAt.Local().Format(pageTimeFormat),
		LastAccess:    "Never",
		TrackingURL:   h.baseURL + "/track/" + doc.TrackingID,
		DownloadURL:   h.baseURL + "/pdf/" + doc.TrackingID,
	}
	if lastAccess != nil {
		v.LastAccess = lastAccess.Local().Format(pageTimeFormat)
	}
	return v
}

func accessViewFrom(entry *domain.AccessLog) accessView {
	return accessView{
		Timestamp:  entry.Timestamp.Local().Format(pageTimeFormat),
		AccessType: string(entry.AccessType),
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Referrer:   entry.Referrer,
		Location:   entry.Location.City + ", " + entry.Location.State + " - " + entry.Location.Country,
		Network:    entry.Location.Network,
	}
}

// Dashboard handles GET / - the document listing page
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListDocuments(r.Context())
	if err != nil {
		h.logger.Error("Failed to load dashboard", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := dashboardData{Documents: make([]documentView, 0, len(summaries))}
	for _, s := range summaries {
		data.Documents = append(data.Documents, h.documentView(&s.Document, s.LastAccess))
	}

	h.renderPage(w, "dashboard.html", data)
}

// DocumentPage handles GET /documents/{id} - per-document access history
func (h *Handler) DocumentPage(w http.ResponseWriter, r *http.Request) {
	trackingID := r.PathValue("id")

	doc, entries, err := h.service.GetAccessHistory(r.Context(), trackingID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Failed to load document page", "tracking_id", trackingID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := documentPageData{
		Document: h.documentView(doc, nil),
		Accesses: make([]accessView, 0, len(entries)),
	}
	for _, entry := range entries {
		data.Accesses = append(data.Accesses, accessViewFrom(entry))
	}

	h.renderPage(w, "document.html", data)
}

// renderTrackPage serves the human-readable confirmation for a tracked
// view in page mode
func (h *Handler) renderTrackPage(w http.ResponseWriter, doc *domain.Document) {
	noCacheHeaders(w)
	h.renderPage(w, "track.html", trackPageData{
		Title:       doc.Title,
		DownloadURL: h.baseURL + "/pdf/" + doc.TrackingID,
	})
}

func (h *Handler) renderPage(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("Failed to render template", "template", name, "error", err)
	}
}
