package travel

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/fleetops/routeplan/core/model"
)

// Leg is the travelled distance and duration of a single route segment.
type Leg struct {
	DistanceKm float64
	Minutes    int
}

// Estimator resolves distance and travel time for one leg of a route. Lookups
// happen sequentially in route order during solution extraction; a failed
// lookup is a solve-level I/O failure, never silently zeroed.
type Estimator interface {
	Leg(ctx context.Context, from, to model.Location) (Leg, error)
}

// LookupError marks a failed per-leg lookup so callers can distinguish it from
// an infeasible solve.
type LookupError struct {
	From model.Location
	To   model.Location
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("travel lookup (%.5f,%.5f)->(%.5f,%.5f): %v",
		e.From.Lat, e.From.Lon, e.To.Lat, e.To.Lon, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// MatrixEstimator serves legs from precomputed haversine matrices. It is the
// default when no external lookup service is configured and never fails.
type MatrixEstimator struct {
	locs     []model.Location
	index    map[model.Location]int
	distance *mat.Dense
	time     *mat.Dense
}

// NewMatrixEstimator wires the node locations to their matrix rows.
func NewMatrixEstimator(locs []model.Location, distance, time *mat.Dense) *MatrixEstimator {
	idx := make(map[model.Location]int, len(locs))
	for i, l := range locs {
		if _, ok := idx[l]; !ok {
			idx[l] = i
		}
	}
	return &MatrixEstimator{locs: locs, index: idx, distance: distance, time: time}
}

// Leg returns the precomputed distance and duration for the segment.
func (m *MatrixEstimator) Leg(_ context.Context, from, to model.Location) (Leg, error) {
	i, ok := m.index[from]
	if !ok {
		return Leg{}, &LookupError{From: from, To: to, Err: fmt.Errorf("unknown origin")}
	}
	j, ok := m.index[to]
	if !ok {
		return Leg{}, &LookupError{From: from, To: to, Err: fmt.Errorf("unknown destination")}
	}
	return Leg{DistanceKm: m.distance.At(i, j), Minutes: int(m.time.At(i, j))}, nil
}
