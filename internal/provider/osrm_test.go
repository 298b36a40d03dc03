package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/provider"
)

// newFakeOSRM serves a canned response for every /route/v1 request and
// records the request path for assertions.
func newFakeOSRM(t *testing.T, status int, body string) (*provider.OSRM, *string) {
	t.Helper()
	var lastPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath = r.URL.Path + "?" + r.URL.RawQuery
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return provider.NewOSRM(srv.URL), &lastPath
}

func TestOSRM_ComputeRoute(t *testing.T) {
	// 8100 s = 2 h 15 m, 184 231 m rounds to 184.2 km.
	osrm, lastPath := newFakeOSRM(t, http.StatusOK, `{
		"code": "Ok",
		"routes": [{
			"duration": 8100,
			"distance": 184231,
			"geometry": {"coordinates": [[-74.0, 40.7], [-71.0, 42.3]]}
		}]
	}`)

	leg, err := osrm.ComputeRoute(context.Background(),
		domain.Coordinate{Lat: 40.7, Lng: -74.0},
		domain.Coordinate{Lat: 42.3, Lng: -71.0})

	require.NoError(t, err)
	require.NotNil(t, leg)
	assert.Equal(t, "2 hours 15 mins", leg.DrivingTime)
	assert.Equal(t, "184.2 km", leg.Distance)
	// GeoJSON [lng, lat] pairs come back as lat/lng coordinates.
	require.Len(t, leg.Polyline, 2)
	assert.Equal(t, domain.Coordinate{Lat: 40.7, Lng: -74.0}, leg.Polyline[0])
	assert.Equal(t, domain.Coordinate{Lat: 42.3, Lng: -71.0}, leg.Polyline[1])
	// The request is lng,lat;lng,lat per the OSRM URL scheme.
	assert.Contains(t, *lastPath, "/route/v1/driving/-74.000000,40.700000;-71.000000,42.300000")
	assert.Contains(t, *lastPath, "geometries=geojson")
}

func TestOSRM_ComputeRoute_SingularUnits(t *testing.T) {
	osrm, _ := newFakeOSRM(t, http.StatusOK, `{
		"code": "Ok",
		"routes": [{"duration": 3660, "distance": 52400, "geometry": {"coordinates": []}}]
	}`)

	leg, err := osrm.ComputeRoute(context.Background(), domain.Coordinate{Lat: 1, Lng: 1}, domain.Coordinate{Lat: 2, Lng: 2})

	require.NoError(t, err)
	require.NotNil(t, leg)
	assert.Equal(t, "1 hour 1 min", leg.DrivingTime)
	assert.Equal(t, "52.4 km", leg.Distance)
}

func TestOSRM_ComputeRoute_MinutesOnly(t *testing.T) {
	osrm, _ := newFakeOSRM(t, http.StatusOK, `{
		"code": "Ok",
		"routes": [{"duration": 2700, "distance": 30000, "geometry": {"coordinates": []}}]
	}`)

	leg, err := osrm.ComputeRoute(context.Background(), domain.Coordinate{Lat: 1, Lng: 1}, domain.Coordinate{Lat: 2, Lng: 2})

	require.NoError(t, err)
	require.NotNil(t, leg)
	assert.Equal(t, "45 mins", leg.DrivingTime)
	assert.Equal(t, "30 km", leg.Distance)
}

func TestOSRM_ComputeRoute_NoRouteFound(t *testing.T) {
	osrm, _ := newFakeOSRM(t, http.StatusOK, `{"code": "NoRoute", "routes": []}`)

	leg, err := osrm.ComputeRoute(context.Background(), domain.Coordinate{Lat: 1, Lng: 1}, domain.Coordinate{Lat: 2, Lng: 2})

	require.NoError(t, err)
	assert.Nil(t, leg, "no route is not an error, just a nil leg")
}

func TestOSRM_ComputeRoute_ServerError(t *testing.T) {
	osrm, _ := newFakeOSRM(t, http.StatusBadGateway, "")

	_, err := osrm.ComputeRoute(context.Background(), domain.Coordinate{Lat: 1, Lng: 1}, domain.Coordinate{Lat: 2, Lng: 2})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestOSRM_ComputeRoute_MalformedBody(t *testing.T) {
	osrm, _ := newFakeOSRM(t, http.StatusOK, "{not json")

	_, err := osrm.ComputeRoute(context.Background(), domain.Coordinate{Lat: 1, Lng: 1}, domain.Coordinate{Lat: 2, Lng: 2})

	assert.Error(t, err)
}
