// Package provider contains RouteProvider implementations backed by external
// routing services.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// OSRM computes driving segments via an OSRM server's /route/v1 API.
// Durations and distances are formatted into the document's string shapes
// ("2 hours 15 mins", "184 km") at this boundary so the core never handles
// raw seconds or meters.
//
// The provider is safe for concurrent use. No retries: a failed call means a
// skipped pair, and the next recomputation pass tries again.
type OSRM struct {
	client  *http.Client
	baseURL string
}

// NewOSRM constructs an OSRM provider for the given base URL, e.g.
// "https://router.project-osrm.org".
func NewOSRM(baseURL string) *OSRM {
	return &OSRM{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// osrmResponse mirrors the subset of the OSRM route response the adapter
// reads. Geometry arrives GeoJSON-style as [lng, lat] pairs.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Duration float64 `json:"duration"` // seconds
		Distance float64 `json:"distance"` // meters
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// ComputeRoute requests one driving route between origin and destination.
// A nil leg with nil error means OSRM found no route.
func (o *OSRM) ComputeRoute(ctx context.Context, origin, destination domain.Coordinate) (*service.RouteLeg, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		o.baseURL, origin.Lng, origin.Lat, destination.Lng, destination.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("provider.OSRM.ComputeRoute: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider.OSRM.ComputeRoute: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider.OSRM.ComputeRoute: unexpected status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("provider.OSRM.ComputeRoute: decode response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, nil // no route found
	}

	route := body.Routes[0]
	polyline := make([]domain.Coordinate, 0, len(route.Geometry.Coordinates))
	for _, pair := range route.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		polyline = append(polyline, domain.Coordinate{Lat: pair[1], Lng: pair[0]})
	}

	return &service.RouteLeg{
		DrivingTime: formatDuration(route.Duration),
		Distance:    formatDistance(route.Distance),
		Polyline:    polyline,
	}, nil
}

// formatDuration renders seconds in the document's duration shape,
// e.g. "2 hours 15 mins", "1 hour 5 mins", "45 mins".
func formatDuration(seconds float64) string {
	total := int(math.Round(seconds / 60))
	h, m := total/60, total%60
	if h == 0 {
		return fmt.Sprintf("%d %s", m, minsWord(m))
	}
	return fmt.Sprintf("%d %s %d %s", h, hoursWord(h), m, minsWord(m))
}

func hoursWord(h int) string {
	if h == 1 {
		return "hour"
	}
	return "hours"
}

func minsWord(m int) string {
	if m == 1 {
		return "min"
	}
	return "mins"
}

// formatDistance renders meters as kilometers with one decimal, e.g. "184 km",
// "20.5 km".
func formatDistance(meters float64) string {
	km := math.Round(meters/1000*10) / 10
	return strconv.FormatFloat(km, 'f', -1, 64) + " km"
}
