package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fleetops/routeplan/core/model"
	"github.com/fleetops/routeplan/core/problem"
)

// Constraints exposes the routing constraint graph as pure evaluators over
// explicit node indices: transit times, demands, distances, windows, vehicle
// caps, the drop penalty, and the depot dock resource. It owns references to
// the problem and the precomputed matrices and carries no search state.
type Constraints struct {
	prob *problem.Problem
	dist *mat.Dense
	time *mat.Dense
}

// NewConstraints binds the problem to its distance and time matrices.
func NewConstraints(p *problem.Problem, dist, timeM *mat.Dense) *Constraints {
	return &Constraints{prob: p, dist: dist, time: timeM}
}

// Problem returns the underlying problem model.
func (c *Constraints) Problem() *problem.Problem { return c.prob }

// NumNodes counts the depot plus all order nodes.
func (c *Constraints) NumNodes() int { return len(c.prob.Nodes) }

// NumVehicles counts the filtered fleet.
func (c *Constraints) NumVehicles() int { return len(c.prob.Vehicles) }

// Distance is the arc cost between two nodes in kilometers.
func (c *Constraints) Distance(from, to int) float64 {
	if from == to {
		return 0
	}
	return c.dist.At(from, to)
}

// TravelTime is the driving time between two nodes in whole minutes.
func (c *Constraints) TravelTime(from, to int) int {
	if from == to {
		return 0
	}
	return int(c.time.At(from, to))
}

// TransitTime is the time consumed leaving node from toward node to: the
// departing node's service time plus travel.
func (c *Constraints) TransitTime(from, to int) int {
	if from == to {
		return 0
	}
	return c.prob.ServiceTime(from) + c.TravelTime(from, to)
}

// Demand is the order weight picked up at node i.
func (c *Constraints) Demand(i int) int { return c.prob.Nodes[i].Weight }

// Window is node i's delivery window in minutes.
func (c *Constraints) Window(i int) model.TimeWindow { return c.prob.Nodes[i].Window }

// Capacity is vehicle v's load cap.
func (c *Constraints) Capacity(v int) int { return c.prob.Vehicles[v].Capacity }

// MaxRouteDistance is vehicle v's travel cap including any extra allowance.
func (c *Constraints) MaxRouteDistance(v int) float64 { return c.prob.MaxRouteDistance(v) }

// Horizon bounds every time cumulative variable.
func (c *Constraints) Horizon() int { return c.prob.Opts.Horizon }

// DropPenalty is the fixed cost of excluding one order from all routes.
func (c *Constraints) DropPenalty() int { return c.prob.Opts.DropPenalty }

// DockCapacity limits simultaneous depot loadings.
func (c *Constraints) DockCapacity() int { return c.prob.DockCapacity }

// LoadingTime is the duration one vehicle occupies a dock slot.
func (c *Constraints) LoadingTime() int { return c.prob.LoadingTime }
