package tripfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Parse decodes an uploaded trip document, normalizes its loosely-typed
// fields, validates the result, and builds a Trip. The returned trip carries
// the document's routes as-is; nights, totals, and the flat POI collection
// are the derivation engine's job once the trip is swapped in.
//
// Decoding into fresh maps doubles as the defensive deep clone: nothing in
// the result aliases caller-owned data. Errors are always *ValidationError;
// Parse never panics across the boundary.
func Parse(data []byte) (domain.Trip, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Trip{}, &ValidationError{Message: "uploaded file is not valid JSON", Cause: err}
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return domain.Trip{}, &ValidationError{Message: "uploaded file must contain a JSON object"}
	}

	normalizeDocument(doc)
	if err := validateDocument(doc); err != nil {
		return domain.Trip{}, err
	}
	return buildTrip(doc), nil
}

// normalizeDocument coerces what it can and drops what it cannot, in place:
// date strings become time values, numeric-string coordinates become
// numbers, out-of-range or non-finite coordinates are removed entirely
// (never substituted with the origin), and route entries missing required
// fields are filtered out.
func normalizeDocument(doc map[string]any) {
	if locs, ok := doc["locations"].([]any); ok {
		for _, raw := range locs {
			stop, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := stop["arrivalDate"].(string); ok {
				if t, ok := parseDate(s); ok {
					stop["arrivalDate"] = t
				}
			}
			normalizeCoordinates(stop)
			if pois, ok := stop["pointsOfInterest"].([]any); ok {
				normalizePOIs(pois)
			}
		}
	}

	if pois, ok := doc["pointsOfInterest"].([]any); ok {
		normalizePOIs(pois)
	}

	if routes, ok := doc["routes"].([]any); ok {
		doc["routes"] = filterRoutes(routes)
	}
}

func normalizePOIs(pois []any) {
	for _, raw := range pois {
		if poi, ok := raw.(map[string]any); ok {
			normalizeCoordinates(poi)
		}
	}
}

// normalizeCoordinates coerces the "coordinates" field of a stop or POI to
// numeric lat/lng, dropping the field entirely when it cannot represent a
// plottable point. A dropped field is later excluded from bounds-fitting and
// route computation, rather than silently mis-plotted at the origin.
func normalizeCoordinates(m map[string]any) {
	raw, present := m["coordinates"]
	if !present {
		return
	}
	coords, ok := raw.(map[string]any)
	if !ok {
		slog.Debug("dropping non-object coordinates field", "value", raw)
		delete(m, "coordinates")
		return
	}
	lat, latOK := coerceFloat(coords["lat"])
	lng, lngOK := coerceFloat(coords["lng"])
	if !latOK || !lngOK || !(domain.Coordinate{Lat: lat, Lng: lng}).InRange() {
		slog.Debug("dropping out-of-range coordinates", "lat", coords["lat"], "lng", coords["lng"])
		delete(m, "coordinates")
		return
	}
	coords["lat"] = lat
	coords["lng"] = lng
}

// filterRoutes keeps only route entries carrying all four required fields;
// malformed entries are dropped, not repaired.
func filterRoutes(routes []any) []any {
	kept := make([]any, 0, len(routes))
	for _, raw := range routes {
		r, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		complete := true
		for _, field := range []string{"origin", "destination", "drivingTime", "distance"} {
			if _, ok := r[field]; !ok {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, r)
		}
	}
	return kept
}

// validateDocument runs the structural checks on the normalized document.
// It stops at the first failing stop and reports its index.
func validateDocument(doc map[string]any) error {
	if _, ok := doc["name"].(string); !ok {
		return &ValidationError{Message: "trip name must be a string"}
	}
	locs, ok := doc["locations"].([]any)
	if !ok {
		return &ValidationError{Message: "locations must be an array"}
	}
	for i, raw := range locs {
		stop, ok := raw.(map[string]any)
		if !ok {
			return stopError(i, "is not an object")
		}
		if _, ok := stop["id"].(string); !ok {
			return stopError(i, "id must be a string")
		}
		if _, ok := stop["name"].(string); !ok {
			return stopError(i, "name must be a string")
		}
		if !hasNumericCoordinates(stop) {
			return stopError(i, "coordinates are missing or invalid")
		}
		if _, ok := stop["arrivalDate"].(time.Time); !ok {
			return stopError(i, "arrivalDate is not a valid date")
		}
		if _, ok := stop["pointsOfInterest"].([]any); !ok {
			return stopError(i, "pointsOfInterest must be an array")
		}
	}
	return nil
}

func stopError(index int, detail string) error {
	return &ValidationError{Message: fmt.Sprintf("stop %d: %s", index, detail)}
}

func hasNumericCoordinates(stop map[string]any) bool {
	coords, ok := stop["coordinates"].(map[string]any)
	if !ok {
		return false
	}
	_, latOK := coords["lat"].(float64)
	_, lngOK := coords["lng"].(float64)
	return latOK && lngOK
}

// buildTrip assembles a Trip from a normalized, validated document.
func buildTrip(doc map[string]any) domain.Trip {
	trip := domain.Trip{
		ID:   asString(doc["id"]),
		Name: asString(doc["name"]),
	}
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}

	locs, _ := doc["locations"].([]any)
	trip.Locations = make([]domain.Stop, 0, len(locs))
	for _, raw := range locs {
		// Validation guarantees every entry is an object.
		trip.Locations = append(trip.Locations, buildStop(raw.(map[string]any)))
	}

	if routes, ok := doc["routes"].([]any); ok {
		trip.Routes = buildRoutes(routes)
	}
	return trip
}

func buildStop(m map[string]any) domain.Stop {
	stop := domain.Stop{
		ID:          asString(m["id"]),
		Name:        asString(m["name"]),
		Coordinates: buildCoordinate(m["coordinates"]),
		ArrivalDate: asTime(m["arrivalDate"]),
	}
	pois, _ := m["pointsOfInterest"].([]any)
	stop.PointsOfInterest = make([]domain.PointOfInterest, 0, len(pois))
	for _, raw := range pois {
		if poi, ok := raw.(map[string]any); ok {
			stop.PointsOfInterest = append(stop.PointsOfInterest, buildPOI(poi))
		}
	}
	return stop
}

func buildPOI(m map[string]any) domain.PointOfInterest {
	return domain.PointOfInterest{
		ID:                      asString(m["id"]),
		Name:                    asString(m["name"]),
		Coordinates:             buildCoordinate(m["coordinates"]),
		LocationID:              asString(m["locationId"]),
		DrivingTimeFromLocation: asString(m["drivingTimeFromLocation"]),
		ParentLocationName:      asString(m["parentLocationName"]),
	}
}

func buildRoutes(routes []any) []domain.DrivingRoute {
	out := make([]domain.DrivingRoute, 0, len(routes))
	for _, raw := range routes {
		r, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		route := domain.DrivingRoute{
			DrivingTime: asString(r["drivingTime"]),
			Distance:    asString(r["distance"]),
		}
		if origin, ok := r["origin"].(map[string]any); ok {
			route.Origin = buildStop(origin)
		}
		if dest, ok := r["destination"].(map[string]any); ok {
			route.Destination = buildStop(dest)
		}
		if polyline, ok := r["polyline"].([]any); ok {
			route.Polyline = make([]domain.Coordinate, 0, len(polyline))
			for _, p := range polyline {
				route.Polyline = append(route.Polyline, buildCoordinate(p))
			}
		}
		out = append(out, route)
	}
	return out
}

func buildCoordinate(v any) domain.Coordinate {
	m, ok := v.(map[string]any)
	if !ok {
		return domain.Coordinate{}
	}
	lat, latOK := coerceFloat(m["lat"])
	lng, lngOK := coerceFloat(m["lng"])
	if !latOK || !lngOK {
		return domain.Coordinate{}
	}
	return domain.Coordinate{Lat: lat, Lng: lng}
}

// coerceFloat accepts the numeric shapes a loosely-typed document produces:
// JSON numbers and numeric strings.
func coerceFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// asTime accepts either an already-normalized time value or a date string
// (route snapshots are not date-normalized, only itinerary stops are).
func asTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if t, ok := parseDate(v); ok {
			return t
		}
	}
	return time.Time{}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// parseDate accepts the date encodings trip documents have been seen to
// carry: full RFC 3339 timestamps and plain calendar dates.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
