package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// stopRequest is the JSON body for creating or updating a stop. All fields
// are optional on create (a blank stop is valid); the arrival date accepts
// either a plain calendar date or a full RFC 3339 timestamp.
type stopRequest struct {
	Name             string                   `json:"name"`
	Coordinates      domain.Coordinate        `json:"coordinates"`
	ArrivalDate      string                   `json:"arrivalDate"`
	PointsOfInterest []domain.PointOfInterest `json:"pointsOfInterest"`
}

// reorderRequest is the JSON body for moving a stop between positions.
type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// AddStop handles POST /trip/stops. An empty body appends a blank stop.
func (s *Server) AddStop(w http.ResponseWriter, r *http.Request) {
	stop, ok := decodeStop(w, r, "")
	if !ok {
		return
	}
	respondJSON(w, http.StatusCreated, s.planner.AddStop(r.Context(), stop))
}

// UpdateStop handles PUT /trip/stops/{stopID}. An unknown ID is a lenient
// no-op: the unchanged trip is returned.
func (s *Server) UpdateStop(w http.ResponseWriter, r *http.Request) {
	stop, ok := decodeStop(w, r, chi.URLParam(r, "stopID"))
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.planner.UpdateStop(r.Context(), stop))
}

// DeleteStop handles DELETE /trip/stops/{stopID}. An unknown ID is a lenient
// no-op: the unchanged trip is returned.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.planner.DeleteStop(r.Context(), chi.URLParam(r, "stopID")))
}

// ReorderStops handles POST /trip/stops/reorder. Out-of-range indexes are a
// lenient no-op: the unchanged trip is returned.
func (s *Server) ReorderStops(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondRequestError(w, "invalid JSON body")
		return
	}
	respondJSON(w, http.StatusOK, s.planner.ReorderStops(r.Context(), req.From, req.To))
}

// decodeStop reads a stopRequest body into a domain.Stop. An empty body is
// accepted and yields a zero stop. Returns false after writing an error
// response when the body or date is malformed.
func decodeStop(w http.ResponseWriter, r *http.Request, id string) (domain.Stop, bool) {
	var req stopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondRequestError(w, "invalid JSON body")
		return domain.Stop{}, false
	}

	stop := domain.Stop{
		ID:               id,
		Name:             req.Name,
		Coordinates:      req.Coordinates,
		PointsOfInterest: req.PointsOfInterest,
	}
	if req.ArrivalDate != "" {
		t, err := parseArrivalDate(req.ArrivalDate)
		if err != nil {
			respondRequestError(w, "arrivalDate must be a date (2006-01-02 or RFC 3339)")
			return domain.Stop{}, false
		}
		stop.ArrivalDate = t
	}
	return stop, true
}

func parseArrivalDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
