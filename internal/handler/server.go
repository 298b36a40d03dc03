// Package handler implements the HTTP handlers for the Trip Planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, stop.go, openapi.go) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// TripPlanner defines the command surface the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the service layer.
type TripPlanner interface {
	Trip() domain.Trip
	AddStop(ctx context.Context, stop domain.Stop) domain.Trip
	UpdateStop(ctx context.Context, stop domain.Stop) domain.Trip
	DeleteStop(ctx context.Context, id string) domain.Trip
	ReorderStops(ctx context.Context, from, to int) domain.Trip
	UploadTrip(ctx context.Context, doc []byte) (domain.Trip, error)
	DownloadTrip() ([]byte, string, error)
	RecalculateRoutes()
	Statistics() service.TripStatistics
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	planner TripPlanner
}

// NewServer constructs the Server with all its dependencies.
func NewServer(planner TripPlanner) *Server {
	return &Server{planner: planner}
}

// Routes returns the router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trip", func(r chi.Router) {
		r.Get("/", s.GetTrip)
		r.Get("/stats", s.GetStatistics)
		r.Get("/export", s.ExportTrip)
		r.Post("/import", s.ImportTrip)
		r.Post("/routes/recalculate", s.RecalculateRoutes)

		r.Route("/stops", func(r chi.Router) {
			r.Post("/", s.AddStop)
			r.Post("/reorder", s.ReorderStops)
			r.Put("/{stopID}", s.UpdateStop)
			r.Delete("/{stopID}", s.DeleteStop)
		})
	})

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
