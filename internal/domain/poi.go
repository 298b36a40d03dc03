package domain

import "strings"

// PointOfInterest is a side attraction associated with one stop.
type PointOfInterest struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Coordinates Coordinate `json:"coordinates"`

	// LocationID is the back-reference to the owning Stop's ID. The
	// derivation engine assigns it the first time the POI appears in the
	// flat collection if not already set; it is never overwritten once set.
	LocationID string `json:"locationId,omitempty"`

	// DrivingTimeFromLocation is derived, filled asynchronously by the
	// route provider. Empty until computed.
	DrivingTimeFromLocation string `json:"drivingTimeFromLocation,omitempty"`

	// ParentLocationName is a denormalized copy of the owning stop's name,
	// taken when the back-reference is assigned. It is not re-synced after
	// a stop rename, so it can go stale; display code treats it as a hint.
	ParentLocationName string `json:"parentLocationName,omitempty"`
}

// HasContent reports whether the POI has a non-blank name. Placeholder rows
// the user has not filled in yet are excluded from driving-time calculations
// and printed summaries.
func (p PointOfInterest) HasContent() bool {
	return strings.TrimSpace(p.Name) != ""
}
