package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
)

// RouteLeg is a route provider's answer for a single origin→destination
// pair: formatted driving time and distance plus the route geometry.
type RouteLeg struct {
	DrivingTime string
	Distance    string
	Polyline    []domain.Coordinate
}

// RouteProvider computes one driving segment between two coordinates.
// Implementations live in internal/provider. A nil leg with a nil error
// means "no route found" and is treated like a failure: the pair is skipped.
// The core imposes no retry policy on providers.
type RouteProvider interface {
	ComputeRoute(ctx context.Context, origin, destination domain.Coordinate) (*RouteLeg, error)
}

// RouteCache keeps Trip.Routes an accurate reflection of the stop coordinate
// sequence, refilling it asynchronously through the RouteProvider.
//
// It is a single-slot "latest request" supervisor: Run waits for a wake-up,
// then performs one recomputation pass. The wake channel has capacity one, so
// a notification arriving mid-pass collapses into a single pending
// re-evaluation and further ones are dropped — at most one pass is ever in
// flight, and a superseding snapshot is simply evaluated once the current
// pass finishes.
type RouteCache struct {
	provider RouteProvider
	source   *Planner
	log      *slog.Logger

	wake chan struct{}

	mu      sync.Mutex
	lastKey []domain.Coordinate // coordinate sequence of the last successful pass
}

// NewRouteCache constructs a RouteCache reading snapshots from source and
// computing segments through provider. Call Run to start the supervisor.
func NewRouteCache(provider RouteProvider, source *Planner, log *slog.Logger) *RouteCache {
	return &RouteCache{
		provider: provider,
		source:   source,
		log:      log,
		wake:     make(chan struct{}, 1),
	}
}

// Notify signals that a new trip snapshot is available. Never blocks.
func (c *RouteCache) Notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Recalculate forces the next pass to bypass the identical-sequence skip and
// wakes the supervisor.
func (c *RouteCache) Recalculate() {
	c.mu.Lock()
	c.lastKey = nil
	c.mu.Unlock()
	c.Notify()
}

// Run is the supervisor loop. It blocks until ctx is canceled.
func (c *RouteCache) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
			c.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce evaluates the current trip snapshot and recomputes the route
// cache if it is stale. Exported so tests and synchronous callers can drive
// a pass deterministically; Run calls it on every wake-up.
func (c *RouteCache) RefreshOnce(ctx context.Context) {
	snap := c.source.Trip()
	if len(snap.Locations) < 2 {
		return
	}

	key := coordinateSequence(snap.Locations)
	c.mu.Lock()
	unchanged := sameCoordinateSequence(key, c.lastKey)
	c.mu.Unlock()
	if unchanged && len(snap.Routes) > 0 {
		return
	}

	routes := c.computeSegments(ctx, snap)
	// An all-failed pass leaves the previous cache untouched rather than
	// blanking it.
	if len(routes) == 0 {
		return
	}

	poiTimes := c.computePOITimes(ctx, snap)
	if c.source.commitRouteResults(key, routes, poiTimes) {
		c.mu.Lock()
		c.lastKey = key
		c.mu.Unlock()
	}
}

// computeSegments calls the provider for each consecutive stop pair. Pairs
// with an unset endpoint are skipped without a placeholder, and per-pair
// failures are silently omitted (non-fatal, no retry).
func (c *RouteCache) computeSegments(ctx context.Context, snap domain.Trip) []domain.DrivingRoute {
	var routes []domain.DrivingRoute
	for i := 0; i+1 < len(snap.Locations); i++ {
		origin, dest := snap.Locations[i], snap.Locations[i+1]
		if !origin.Coordinates.IsSet() || !dest.Coordinates.IsSet() {
			continue
		}
		leg, err := c.provider.ComputeRoute(ctx, origin.Coordinates, dest.Coordinates)
		if err != nil || leg == nil {
			c.log.Debug("route computation failed",
				"origin", origin.Name, "destination", dest.Name, "error", err)
			continue
		}
		routes = append(routes, domain.DrivingRoute{
			Origin:      origin.Clone(),
			Destination: dest.Clone(),
			DrivingTime: leg.DrivingTime,
			Distance:    leg.Distance,
			Polyline:    leg.Polyline,
		})
	}
	return routes
}

// computePOITimes fills driving times from each stop to its content-bearing
// POIs. Already-computed times are kept; failures are skipped.
func (c *RouteCache) computePOITimes(ctx context.Context, snap domain.Trip) map[string]string {
	times := make(map[string]string)
	for _, stop := range snap.Locations {
		if !stop.Coordinates.IsSet() {
			continue
		}
		for _, poi := range stop.PointsOfInterest {
			if !poi.HasContent() || !poi.Coordinates.IsSet() || poi.DrivingTimeFromLocation != "" {
				continue
			}
			leg, err := c.provider.ComputeRoute(ctx, stop.Coordinates, poi.Coordinates)
			if err != nil || leg == nil {
				continue
			}
			times[poi.ID] = leg.DrivingTime
		}
	}
	return times
}
