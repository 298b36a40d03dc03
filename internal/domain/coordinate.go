// Package domain contains the core data types for the Trip Planner application.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, tripfile, handler).
package domain

import "math"

// Coordinate is a WGS84 point. By convention the (0,0) origin means "unset":
// it is not a real-world point for this domain and is excluded from bounds
// calculations and route computation.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsSet reports whether c is a usable real-world point: both components
// finite, Lat in [-90,90], Lng in [-180,180], and not the (0,0) origin.
func (c Coordinate) IsSet() bool {
	return c.InRange() && (c.Lat != 0 || c.Lng != 0)
}

// InRange reports whether both components are finite and within WGS84 bounds.
// Unlike IsSet it accepts the (0,0) origin; the import pipeline uses it to
// decide whether uploaded coordinates are worth keeping at all.
func (c Coordinate) InRange() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
