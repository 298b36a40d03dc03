package domain

// Trip is the aggregate root. A trip lives in memory as a single
// immutable-per-version value: every mutation produces a new Trip from the
// previous one, so readers always hold a stable snapshot.
//
// Invariants maintained by the derivation engine:
//   - len(Routes) <= len(Locations)-1; Routes is either empty (stale or
//     uncomputed) or fully populated for the current Locations sequence.
//   - Every element of PointsOfInterest carries a LocationID referencing an
//     existing stop in Locations; the flat list is derived, never edited.
//   - NightsStayed is present on every stop except the last.
//   - TotalDays equals the sum of all present NightsStayed values.
type Trip struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Locations is the itinerary in user order (drag-reorderable),
	// independent of arrival-date order.
	Locations []Stop `json:"locations"`

	// PointsOfInterest is the flat, denormalized collection of every POI
	// across all stops, rebuilt on every mutation.
	PointsOfInterest []PointOfInterest `json:"pointsOfInterest"`

	// TotalDays is the derived sum of all non-terminal stops' NightsStayed.
	TotalDays int `json:"totalDays"`

	// Routes caches one computed driving segment per consecutive stop pair.
	// May be empty pending recomputation.
	Routes []DrivingRoute `json:"routes,omitempty"`
}

// Clone returns a deep copy of t.
func (t Trip) Clone() Trip {
	locs := make([]Stop, len(t.Locations))
	for i, s := range t.Locations {
		locs[i] = s.Clone()
	}
	t.Locations = locs

	pois := make([]PointOfInterest, len(t.PointsOfInterest))
	copy(pois, t.PointsOfInterest)
	t.PointsOfInterest = pois

	if t.Routes != nil {
		routes := make([]DrivingRoute, len(t.Routes))
		copy(routes, t.Routes)
		t.Routes = routes
	}
	return t
}
