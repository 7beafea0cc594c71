package http

import "net/http"

// Routes builds the application ServeMux.
// Go 1.22 method+wildcard patterns cover everything this service needs,
// so no external router is pulled in.
//
// metricsHandler is the Prometheus exposition endpoint; pass nil to
// disable it.
func (h *Handler) Routes(metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// JSON API
	mux.HandleFunc("POST /api/v1/documents", h.CreateDocument)
	mux.HandleFunc("GET /api/v1/documents", h.ListDocuments)
	mux.HandleFunc("GET /api/v1/documents/{id}/accesses", h.GetAccessHistory)

	// Tracking surface - these are the URLs embedded in sent documents
	mux.HandleFunc("GET /track/{id}", h.TrackDocument)
	mux.HandleFunc("GET /pdf/{id}", h.DownloadPDF)

	// Dashboard pages
	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /documents/{id}", h.DocumentPage)

	// Operational endpoints
	mux.HandleFunc("GET /health/live", h.HealthCheck)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return mux
}
