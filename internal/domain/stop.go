package domain

import "time"

// Stop represents one overnight destination on the itinerary.
// The itinerary order is the order of Trip.Locations and is user-controlled;
// it is independent of ArrivalDate order, so out-of-order dates are a valid
// (if unusual) state.
type Stop struct {
	// ID is an opaque unique identifier, assigned at creation, stable for
	// the stop's lifetime and never reused.
	ID string `json:"id"`

	Name        string     `json:"name"`
	Coordinates Coordinate `json:"coordinates"`

	// ArrivalDate is a calendar date; time-of-day is ignored by all
	// derivations.
	ArrivalDate time.Time `json:"arrivalDate"`

	PointsOfInterest []PointOfInterest `json:"pointsOfInterest"`

	// NightsStayed is derived, not authoritative: the calendar-day count
	// between this stop's arrival date and the next stop's. It is nil on the
	// last stop, and may be negative when dates are out of itinerary order.
	NightsStayed *int `json:"nightsStayed,omitempty"`
}

// Clone returns a deep copy of s. The POI slice and the NightsStayed pointer
// are copied so the clone shares no mutable state with the original.
func (s Stop) Clone() Stop {
	pois := make([]PointOfInterest, len(s.PointsOfInterest))
	copy(pois, s.PointsOfInterest)
	s.PointsOfInterest = pois
	if s.NightsStayed != nil {
		n := *s.NightsStayed
		s.NightsStayed = &n
	}
	return s
}
