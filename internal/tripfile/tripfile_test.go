package tripfile_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/internal/tripfile"
)

// ---- helpers ---------------------------------------------------------------

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// sampleTrip builds a fully derived two-stop trip through the engine.
func sampleTrip(t *testing.T) domain.Trip {
	t.Helper()
	trip := domain.Trip{ID: "trip-1", Name: "West Coast Tour"}
	trip = service.Apply(trip, service.AddStop{Stop: domain.Stop{
		ID:          "a",
		Name:        "NYC",
		Coordinates: domain.Coordinate{Lat: 40.7, Lng: -74.0},
		ArrivalDate: day(t, "2023-01-01"),
		PointsOfInterest: []domain.PointOfInterest{
			{ID: "p1", Name: "MoMA", Coordinates: domain.Coordinate{Lat: 40.76, Lng: -73.97}},
		},
	}})
	trip = service.Apply(trip, service.AddStop{Stop: domain.Stop{
		ID:          "b",
		Name:        "Boston",
		Coordinates: domain.Coordinate{Lat: 42.3, Lng: -71.0},
		ArrivalDate: day(t, "2023-01-04"),
	}})
	return trip
}

// ---- serialize / filename --------------------------------------------------

func TestSerialize_ProducesIndentedJSON(t *testing.T) {
	data, err := tripfile.Serialize(sampleTrip(t))
	require.NoError(t, err)

	assert.True(t, json.Valid(data))
	assert.Contains(t, string(data), "\n  \"name\": \"West Coast Tour\"")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "West_Coast_Tour_trip.json", tripfile.Filename("West Coast Tour"))
	assert.Equal(t, "Summer_trip.json", tripfile.Filename("Summer"))
	assert.Equal(t, "_trip.json", tripfile.Filename(""))
}

// ---- round trip ------------------------------------------------------------

func TestParse_RoundTripsSerializedTrip(t *testing.T) {
	original := sampleTrip(t)
	data, err := tripfile.Serialize(original)
	require.NoError(t, err)

	parsed, err := tripfile.Parse(data)
	require.NoError(t, err)

	// Run the parsed trip back through the derivation engine, as the planner
	// does on upload; the result must match the original snapshot.
	restored := service.Apply(domain.Trip{}, service.ReplaceTrip{Trip: parsed})
	assert.Equal(t, original, restored)
}

// ---- parsing ---------------------------------------------------------------

func TestParse_NotJSON(t *testing.T) {
	_, err := tripfile.Parse([]byte("{not json"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	var verr *tripfile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "uploaded file is not valid JSON", verr.Message)
	assert.Error(t, verr.Cause)
}

func TestParse_NotAnObject(t *testing.T) {
	_, err := tripfile.Parse([]byte(`[1, 2, 3]`))

	var verr *tripfile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "uploaded file must contain a JSON object", verr.Message)
}

func TestParse_NameMustBeString(t *testing.T) {
	_, err := tripfile.Parse([]byte(`{"name": 42, "locations": []}`))

	var verr *tripfile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "trip name must be a string", verr.Message)
}

func TestParse_LocationsMustBeArray(t *testing.T) {
	_, err := tripfile.Parse([]byte(`{"name": "Trip", "locations": {}}`))

	var verr *tripfile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "locations must be an array", verr.Message)
}

func TestParse_CoercesNumericStringCoordinates(t *testing.T) {
	doc := []byte(`{
		"name": "Trip",
		"locations": [{
			"id": "a",
			"name": "NYC",
			"coordinates": {"lat": "40.7", "lng": "-74.0"},
			"arrivalDate": "2023-01-01",
			"pointsOfInterest": []
		}]
	}`)

	trip, err := tripfile.Parse(doc)
	require.NoError(t, err)

	require.Len(t, trip.Locations, 1)
	assert.Equal(t, domain.Coordinate{Lat: 40.7, Lng: -74.0}, trip.Locations[0].Coordinates)
	assert.Equal(t, day(t, "2023-01-01"), trip.Locations[0].ArrivalDate)
}

func TestParse_OutOfRangeStopCoordinatesFailValidation(t *testing.T) {
	// An unplottable coordinate is dropped during normalization, which then
	// fails stop validation with the stop's index in the message.
	doc := []byte(`{
		"name": "Trip",
		"locations": [{
			"id": "a",
			"name": "Nowhere",
			"coordinates": {"lat": "200", "lng": "10"},
			"arrivalDate": "2023-01-01",
			"pointsOfInterest": []
		}]
	}`)

	_, err := tripfile.Parse(doc)

	var verr *tripfile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stop 0: coordinates are missing or invalid", verr.Message)
}

func TestParse_ReportsFirstFailingStopIndex(t *testing.T) {
	doc := []byte(`{
		"name": "Trip",
		"locations": [
			{
				"id": "a",
				"name": "NYC",
				"coordinates": {"lat": 40.7, "lng": -74.0},
				"arrivalDate": "2023-01-01",
				"pointsOfInterest": []
			},
			{
				"id": "b",
				"name": "Boston",
				"coordinates": {"lat": 42.3, "lng": -71.0},
				"arrivalDate": "not a date",
				"pointsOfInterest": []
			}
		]
	}`)

	_, err := tripfile.Parse(doc)

	var verr *tripfile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stop 1: arrivalDate is not a valid date", verr.Message)
}

func TestParse_AcceptsTimestampArrivalDates(t *testing.T) {
	doc := []byte(`{
		"name": "Trip",
		"locations": [{
			"id": "a",
			"name": "NYC",
			"coordinates": {"lat": 40.7, "lng": -74.0},
			"arrivalDate": "2023-01-01T00:00:00Z",
			"pointsOfInterest": []
		}]
	}`)

	trip, err := tripfile.Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, day(t, "2023-01-01"), trip.Locations[0].ArrivalDate)
}

func TestParse_DropsInvalidPOICoordinatesButKeepsPOI(t *testing.T) {
	doc := []byte(`{
		"name": "Trip",
		"locations": [{
			"id": "a",
			"name": "NYC",
			"coordinates": {"lat": 40.7, "lng": -74.0},
			"arrivalDate": "2023-01-01",
			"pointsOfInterest": [
				{"id": "p1", "name": "MoMA", "coordinates": {"lat": 999, "lng": 0}}
			]
		}]
	}`)

	trip, err := tripfile.Parse(doc)
	require.NoError(t, err)

	require.Len(t, trip.Locations[0].PointsOfInterest, 1)
	poi := trip.Locations[0].PointsOfInterest[0]
	assert.Equal(t, "MoMA", poi.Name)
	assert.False(t, poi.Coordinates.IsSet(), "invalid POI coordinates become unset, not the origin")
}

func TestParse_FiltersIncompleteRoutes(t *testing.T) {
	doc := []byte(`{
		"name": "Trip",
		"locations": [],
		"routes": [
			{
				"origin": {"id": "a", "name": "NYC"},
				"destination": {"id": "b", "name": "Boston"},
				"drivingTime": "3 hours 45 mins",
				"distance": "346 km"
			},
			{"drivingTime": "1 hour"},
			"garbage"
		]
	}`)

	trip, err := tripfile.Parse(doc)
	require.NoError(t, err)

	require.Len(t, trip.Routes, 1)
	assert.Equal(t, "NYC", trip.Routes[0].Origin.Name)
	assert.Equal(t, "3 hours 45 mins", trip.Routes[0].DrivingTime)
}

func TestParse_MissingTripIDGetsGenerated(t *testing.T) {
	trip, err := tripfile.Parse([]byte(`{"name": "Trip", "locations": []}`))
	require.NoError(t, err)
	assert.NotEmpty(t, trip.ID)
}
