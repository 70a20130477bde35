package geo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/fleetops/routeplan/core/model"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DefaultTrafficFactor converts kilometers to travel minutes when no external
// travel estimator is configured.
const DefaultTrafficFactor = 6.0

// Haversine returns the great-circle distance between two locations in
// kilometers.
func Haversine(a, b model.Location) float64 {
	lon1 := a.Lon * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	dlon := lon2 - lon1
	dlat := lat2 - lat1
	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// DistanceMatrix builds the full pairwise haversine matrix for the given
// locations. The diagonal is zero and the matrix is symmetric. Any non-finite
// coordinate aborts construction; invalid records must have been filtered
// upstream.
func DistanceMatrix(locs []model.Location) (*mat.Dense, error) {
	n := len(locs)
	for i, l := range locs {
		if !l.Valid() {
			return nil, fmt.Errorf("distance matrix: non-finite coordinate at node %d", i)
		}
	}
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			km := Haversine(locs[i], locs[j])
			d.Set(i, j, km)
			d.Set(j, i, km)
		}
	}
	return d, nil
}

// TimeMatrix derives travel minutes from a distance matrix by applying a
// constant traffic factor. factor <= 0 falls back to DefaultTrafficFactor.
func TimeMatrix(d *mat.Dense, factor float64) *mat.Dense {
	if factor <= 0 {
		factor = DefaultTrafficFactor
	}
	r, c := d.Dims()
	t := mat.NewDense(r, c, nil)
	t.Scale(factor, d)
	return t
}
