// Package service contains the business logic for the Trip Planner core:
// the derivation engine that keeps every derived view of a trip consistent,
// the planner session that owns the current trip snapshot, the route cache
// supervisor, and trip statistics.
package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Mutation is one change descriptor accepted by Apply. The concrete types
// below are the only implementations.
type Mutation interface {
	isMutation()
}

// AddStop appends a stop to the itinerary. A zero-value Stop payload yields
// a blank stop: the engine assigns a fresh ID, and the arrival date defaults
// to the previous stop's date (or today when the itinerary is empty) so the
// new stop starts at zero nights.
type AddStop struct {
	Stop domain.Stop
}

// UpdateStop replaces the stop with the matching ID. An unknown ID is a
// lenient no-op: the trip is returned unchanged.
type UpdateStop struct {
	Stop domain.Stop
}

// DeleteStop removes the stop with the matching ID. An unknown ID is a
// lenient no-op.
type DeleteStop struct {
	ID string
}

// ReorderStops moves the stop at From to position To (splice semantics).
// Out-of-range indexes are a lenient no-op.
type ReorderStops struct {
	From, To int
}

// ReplaceTrip swaps in an entirely new trip, e.g. after a file import. The
// incoming trip's routes are kept as-is; nights, totals, and the flat POI
// collection are rederived.
type ReplaceTrip struct {
	Trip domain.Trip
}

func (AddStop) isMutation()      {}
func (UpdateStop) isMutation()   {}
func (DeleteStop) isMutation()   {}
func (ReorderStops) isMutation() {}
func (ReplaceTrip) isMutation()  {}

// Apply is the single mutation entry point of the derivation engine. It
// returns a new consistent Trip value; the input trip is never modified.
//
// Every mutation follows the same shape: transform the stop list, run the
// nights pass, sum total days, rebuild the flat POI collection, then decide
// whether the route cache survives.
func Apply(trip domain.Trip, m Mutation) domain.Trip {
	switch m := m.(type) {
	case AddStop:
		next := cloneStops(trip.Locations)
		next = append(next, newStop(m.Stop, next))
		return derive(trip, next, "", false)

	case UpdateStop:
		idx := indexByID(trip.Locations, m.Stop.ID)
		if idx < 0 {
			return trip
		}
		next := cloneStops(trip.Locations)
		next[idx] = prepareStop(m.Stop)
		// A date-only edit keeps the computed routes; any change to the
		// id/name/coordinate shape of the list invalidates them.
		keep := sameRouteShape(trip.Locations, next)
		return derive(trip, next, m.Stop.ID, keep)

	case DeleteStop:
		idx := indexByID(trip.Locations, m.ID)
		if idx < 0 {
			return trip
		}
		next := cloneStops(trip.Locations)
		next = append(next[:idx], next[idx+1:]...)
		return derive(trip, next, "", false)

	case ReorderStops:
		n := len(trip.Locations)
		if m.From < 0 || m.From >= n || m.To < 0 || m.To >= n {
			return trip
		}
		next := cloneStops(trip.Locations)
		moved := next[m.From]
		next = append(next[:m.From], next[m.From+1:]...)
		next = append(next[:m.To], append([]domain.Stop{moved}, next[m.To:]...)...)
		return derive(trip, next, "", false)

	case ReplaceTrip:
		next := cloneStops(m.Trip.Locations)
		return derive(m.Trip, next, "", true)
	}
	return trip
}

// derive runs the shared recomputation passes over the transformed stop list
// and assembles the next Trip value. prev supplies identity and, when
// keepRoutes is true, the surviving route cache. priorityID names the stop
// whose POIs should lead the flat collection (set for UpdateStop only).
func derive(prev domain.Trip, locs []domain.Stop, priorityID string, keepRoutes bool) domain.Trip {
	applyNights(locs)

	next := domain.Trip{
		ID:        prev.ID,
		Name:      prev.Name,
		Locations: locs,
	}
	for _, s := range locs {
		if s.NightsStayed != nil {
			next.TotalDays += *s.NightsStayed
		}
	}
	next.PointsOfInterest = flattenPOIs(locs, priorityID)
	if keepRoutes {
		next.Routes = prev.Routes
	}
	return next
}

// applyNights recomputes NightsStayed for every stop in place: the
// calendar-day difference to the next stop's arrival date, nil on the last
// stop. Negative values are a permitted state when dates are out of
// itinerary order; they are not clamped.
func applyNights(locs []domain.Stop) {
	for i := range locs {
		if i == len(locs)-1 {
			locs[i].NightsStayed = nil
			continue
		}
		n := calendarDays(locs[i].ArrivalDate, locs[i+1].ArrivalDate)
		locs[i].NightsStayed = &n
	}
}

// calendarDays returns the whole-day difference from a to b, ignoring
// time-of-day and zone.
func calendarDays(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

// flattenPOIs rebuilds the flat denormalized POI collection from the stop
// list. Back-references (LocationID, ParentLocationName) are assigned in
// place the first time a POI is flattened and never overwritten afterwards —
// a stale ParentLocationName after a stop rename is the documented behavior.
//
// When priorityID is set, that stop's POIs lead the flat list so the
// just-edited stop's POI order dominates while the user is editing it; the
// remaining stops follow in itinerary order.
func flattenPOIs(locs []domain.Stop, priorityID string) []domain.PointOfInterest {
	total := 0
	for i := range locs {
		for j := range locs[i].PointsOfInterest {
			p := &locs[i].PointsOfInterest[j]
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			if p.LocationID == "" {
				p.LocationID = locs[i].ID
				p.ParentLocationName = locs[i].Name
			}
		}
		total += len(locs[i].PointsOfInterest)
	}

	flat := make([]domain.PointOfInterest, 0, total)
	if priorityID != "" {
		if idx := indexByID(locs, priorityID); idx >= 0 {
			flat = append(flat, locs[idx].PointsOfInterest...)
		}
	}
	for i := range locs {
		if locs[i].ID == priorityID {
			continue
		}
		flat = append(flat, locs[i].PointsOfInterest...)
	}
	return flat
}

// sameRouteShape reports whether two stop lists are identical in every field
// the route cache depends on: id, name, and both coordinate components at
// every index. Dates and POIs are deliberately ignored.
func sameRouteShape(a, b []domain.Stop) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Name != b[i].Name ||
			a[i].Coordinates.Lat != b[i].Coordinates.Lat ||
			a[i].Coordinates.Lng != b[i].Coordinates.Lng {
			return false
		}
	}
	return true
}

// newStop builds the stop appended by AddStop, filling the blanks of a
// zero-value payload.
func newStop(payload domain.Stop, existing []domain.Stop) domain.Stop {
	s := prepareStop(payload)
	if s.ArrivalDate.IsZero() {
		if len(existing) > 0 {
			s.ArrivalDate = existing[len(existing)-1].ArrivalDate
		} else {
			now := time.Now().UTC()
			s.ArrivalDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return s
}

// prepareStop clones a caller-supplied stop and normalizes the fields the
// engine owns: identity, a non-nil POI slice, and the derived nights value
// (recomputed by the nights pass).
func prepareStop(payload domain.Stop) domain.Stop {
	s := payload.Clone()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.PointsOfInterest == nil {
		s.PointsOfInterest = []domain.PointOfInterest{}
	}
	s.NightsStayed = nil
	return s
}

func cloneStops(locs []domain.Stop) []domain.Stop {
	out := make([]domain.Stop, len(locs))
	for i, s := range locs {
		out[i] = s.Clone()
	}
	return out
}

func indexByID(locs []domain.Stop, id string) int {
	for i := range locs {
		if locs[i].ID == id {
			return i
		}
	}
	return -1
}
