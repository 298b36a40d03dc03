package handler

import (
	"io"
	"net/http"
)

// GetTrip handles GET /trip. It returns the current trip snapshot.
func (s *Server) GetTrip(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.planner.Trip())
}

// GetStatistics handles GET /trip/stats.
func (s *Server) GetStatistics(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.planner.Statistics())
}

// ImportTrip handles POST /trip/import. The body is the raw trip document;
// on success the whole trip is replaced and returned. On failure the previous
// trip is untouched and the validation error is surfaced with its detail.
func (s *Server) ImportTrip(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		respondRequestError(w, "failed to read request body")
		return
	}
	if len(doc) == 0 {
		respondRequestError(w, "request body is required")
		return
	}

	trip, err := s.planner.UploadTrip(r.Context(), doc)
	if err != nil {
		respondUploadError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

// ExportTrip handles GET /trip/export. It streams the serialized document
// with a Content-Disposition filename derived from the trip name.
func (s *Server) ExportTrip(w http.ResponseWriter, _ *http.Request) {
	doc, filename, err := s.planner.DownloadTrip()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to serialize trip", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// RecalculateRoutes handles POST /trip/routes/recalculate. The recomputation
// is fire-and-forget; 202 acknowledges the request was queued.
func (s *Server) RecalculateRoutes(w http.ResponseWriter, _ *http.Request) {
	s.planner.RecalculateRoutes()
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "recalculating"})
}
