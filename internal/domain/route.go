package domain

// DrivingRoute is one computed driving segment between two consecutive stops.
// Origin and Destination are snapshots of the stops as they were when the
// route was computed, not live references; a later edit to either stop does
// not reach into an already-cached route.
type DrivingRoute struct {
	Origin      Stop `json:"origin"`
	Destination Stop `json:"destination"`

	// DrivingTime and Distance are formatted strings as returned by the
	// route provider, e.g. "2 hours 15 mins" and "184 km".
	DrivingTime string `json:"drivingTime"`
	Distance    string `json:"distance"`

	// Polyline traces the route geometry.
	Polyline []Coordinate `json:"polyline"`
}
