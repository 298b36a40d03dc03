package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/tripfile"
)

// StoreKey is the fixed blob-store key under which the current trip document
// is persisted. One application instance owns one trip.
const StoreKey = "trip-planner:current-trip"

// Planner owns the single current Trip value for the session. Every mutation
// produces a new Trip snapshot via the derivation engine; the previous value
// is never mutated in place, so the route cache and any reader can hold a
// snapshot without locking beyond the swap.
//
// The store is best-effort persistence: a failed save is logged and the
// in-memory trip remains authoritative.
type Planner struct {
	store repo.TripStore // may be nil (no persistence)
	log   *slog.Logger

	mu    sync.RWMutex
	trip  domain.Trip
	cache *RouteCache // may be nil (no route computation)
}

// NewPlanner constructs a Planner holding a fresh empty trip.
// Pass a nil store to disable persistence.
func NewPlanner(store repo.TripStore, log *slog.Logger) *Planner {
	return &Planner{
		store: store,
		log:   log,
		trip: domain.Trip{
			ID:               uuid.NewString(),
			Name:             "My Trip",
			Locations:        []domain.Stop{},
			PointsOfInterest: []domain.PointOfInterest{},
		},
	}
}

// AttachCache wires the route cache that should be notified after every
// mutation. Called once during startup; the two-step wiring exists because
// the cache also needs the planner as its snapshot source.
func (p *Planner) AttachCache(c *RouteCache) {
	p.cache = c
}

// Trip returns the current trip snapshot. The snapshot is safe to read
// concurrently with mutations because trips are replaced, never edited.
func (p *Planner) Trip() domain.Trip {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.trip
}

// AddStop appends a stop and returns the new snapshot.
func (p *Planner) AddStop(ctx context.Context, stop domain.Stop) domain.Trip {
	return p.apply(ctx, AddStop{Stop: stop})
}

// UpdateStop replaces the stop with the matching ID and returns the new
// snapshot. An unknown ID leaves the trip unchanged.
func (p *Planner) UpdateStop(ctx context.Context, stop domain.Stop) domain.Trip {
	return p.apply(ctx, UpdateStop{Stop: stop})
}

// DeleteStop removes the stop with the matching ID and returns the new
// snapshot. An unknown ID leaves the trip unchanged.
func (p *Planner) DeleteStop(ctx context.Context, id string) domain.Trip {
	return p.apply(ctx, DeleteStop{ID: id})
}

// ReorderStops moves a stop between itinerary positions and returns the new
// snapshot.
func (p *Planner) ReorderStops(ctx context.Context, from, to int) domain.Trip {
	return p.apply(ctx, ReorderStops{From: from, To: to})
}

// UploadTrip parses, normalizes, and validates an uploaded trip document and
// replaces the whole trip on success. On failure the previous trip is left
// untouched and the structured validation error is returned for display.
func (p *Planner) UploadTrip(ctx context.Context, doc []byte) (domain.Trip, error) {
	trip, err := tripfile.Parse(doc)
	if err != nil {
		return domain.Trip{}, err
	}
	return p.apply(ctx, ReplaceTrip{Trip: trip}), nil
}

// DownloadTrip serializes the current trip and returns the document bytes
// together with the suggested download filename.
func (p *Planner) DownloadTrip() ([]byte, string, error) {
	snap := p.Trip()
	data, err := tripfile.Serialize(snap)
	if err != nil {
		return nil, "", err
	}
	return data, tripfile.Filename(snap.Name), nil
}

// RecalculateRoutes forces the route cache to recompute even when the stop
// coordinate sequence has not changed.
func (p *Planner) RecalculateRoutes() {
	if p.cache != nil {
		p.cache.Recalculate()
	}
}

// Statistics derives aggregate trip totals from the current snapshot.
func (p *Planner) Statistics() TripStatistics {
	return ComputeStatistics(p.Trip())
}

// Restore loads the persisted trip document, if any, and replaces the
// in-memory trip with it. A missing blob is not an error; a corrupt blob is
// logged and skipped so a bad save never bricks the session.
func (p *Planner) Restore(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	data, err := p.store.Load(ctx, StoreKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	trip, err := tripfile.Parse(data)
	if err != nil {
		p.log.Warn("persisted trip document is invalid, starting fresh", "error", err)
		return nil
	}
	p.apply(ctx, ReplaceTrip{Trip: trip})
	return nil
}

// apply runs one mutation through the derivation engine, swaps the snapshot,
// persists best-effort, and wakes the route cache.
func (p *Planner) apply(ctx context.Context, m Mutation) domain.Trip {
	p.mu.Lock()
	next := Apply(p.trip, m)
	p.trip = next
	p.mu.Unlock()

	p.persist(ctx, next)
	if p.cache != nil {
		p.cache.Notify()
	}
	return next
}

func (p *Planner) persist(ctx context.Context, trip domain.Trip) {
	if p.store == nil {
		return
	}
	data, err := tripfile.Serialize(trip)
	if err != nil {
		p.log.Warn("serialize trip for persistence", "error", err)
		return
	}
	if err := p.store.Save(ctx, StoreKey, data); err != nil {
		p.log.Warn("save trip document", "error", err)
	}
}

// commitRouteResults installs routes (and POI driving times) computed by the
// route cache for the given coordinate sequence. Results computed against a
// superseded snapshot are discarded — the key no longer matches — keeping the
// "routes fully populated for the current locations" invariant; the cache's
// pending wake-up re-evaluates against the new snapshot.
func (p *Planner) commitRouteResults(key []domain.Coordinate, routes []domain.DrivingRoute, poiTimes map[string]string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !sameCoordinateSequence(coordinateSequence(p.trip.Locations), key) {
		return false
	}

	next := p.trip.Clone()
	next.Routes = routes
	for i := range next.Locations {
		setPOIDrivingTimes(next.Locations[i].PointsOfInterest, poiTimes)
	}
	setPOIDrivingTimes(next.PointsOfInterest, poiTimes)
	p.trip = next
	return true
}

func setPOIDrivingTimes(pois []domain.PointOfInterest, times map[string]string) {
	for i := range pois {
		if t, ok := times[pois[i].ID]; ok {
			pois[i].DrivingTimeFromLocation = t
		}
	}
}

// coordinateSequence extracts the stop coordinate sequence the route cache
// keys on.
func coordinateSequence(locs []domain.Stop) []domain.Coordinate {
	seq := make([]domain.Coordinate, len(locs))
	for i, s := range locs {
		seq[i] = s.Coordinates
	}
	return seq
}

func sameCoordinateSequence(a, b []domain.Coordinate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
