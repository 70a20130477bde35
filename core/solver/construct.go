package solver

import (
	"sort"

	"github.com/fleetops/routeplan/core/model"
)

// solution is the engine's mutable working state: one route and depot
// departure minute per vehicle, the committed dock schedule, and the nodes
// currently excluded from all routes.
type solution struct {
	routes  [][]int
	starts  []int
	docked  []bool
	dropped []int
	dock    *dockSchedule
}

// assignment freezes the working state into the immutable output form.
func (s *solution) assignment() model.Assignment {
	var a model.Assignment
	a.Routes = make([][]int, len(s.routes))
	for i, r := range s.routes {
		a.Routes[i] = append([]int(nil), r...)
	}
	a.Starts = append([]int(nil), s.starts...)
	a.Dropped = append([]int(nil), s.dropped...)
	sort.Ints(a.Dropped)
	return a
}

// construct runs the cheapest-arc heuristic: each vehicle in turn extends its
// route with the feasible unassigned node of minimal marginal arc distance,
// ties broken by lower node index. Nodes no vehicle can serve end up in the
// drop disjunction. Depot loadings are scheduled greedily on the earliest
// free dock slot.
func (e *Engine) construct() *solution {
	c := e.cons
	n := c.NumNodes()
	nv := c.NumVehicles()
	depot := c.Window(0)

	sol := &solution{
		routes: make([][]int, nv),
		starts: make([]int, nv),
		docked: make([]bool, nv),
		dock:   newDockSchedule(c.DockCapacity(), c.LoadingTime()),
	}
	assigned := make([]bool, n)

	for v := 0; v < nv; v++ {
		start, ok := sol.dock.earliestSlot(depot.Start, depot.End)
		if !ok {
			sol.starts[v] = depot.Start
			continue
		}
		route := []int{}
		for {
			best := -1
			bestArc := 0.0
			last := 0
			if len(route) > 0 {
				last = route[len(route)-1]
			}
			for k := 1; k < n; k++ {
				if assigned[k] {
					continue
				}
				cand := append(route[:len(route):len(route)], k)
				if _, feasible := c.evaluateRoute(v, start, cand); !feasible {
					continue
				}
				arc := c.Distance(last, k)
				if best == -1 || arc < bestArc {
					best, bestArc = k, arc
				}
			}
			if best < 0 {
				break
			}
			route = append(route, best)
			assigned[best] = true
		}
		sol.routes[v] = route
		sol.starts[v] = start
		if len(route) > 0 {
			sol.dock.commit(start)
			sol.docked[v] = true
		}
	}

	for k := 1; k < n; k++ {
		if !assigned[k] {
			sol.dropped = append(sol.dropped, k)
		}
	}
	return sol
}
