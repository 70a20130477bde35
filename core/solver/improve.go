package solver

import (
	"context"
	"time"
)

// improve runs a deterministic local search over the constructed solution:
// reinsertion of dropped nodes, inter-route relocation, and intra-route
// 2-opt. Every accepted move is revalidated against the full constraint
// graph, so feasibility holds after each step. Depot departure minutes stay
// fixed, which keeps the committed dock schedule valid; a route revived from
// empty claims a fresh dock slot first. The search stops at the first sweep
// with no improvement, on budget expiry, or on caller cancellation, and
// reports whether it was cancelled.
func (e *Engine) improve(ctx context.Context, sol *solution, budget time.Duration) bool {
	deadline := time.Now().Add(budget)
	iterations := 0
	for {
		if ctx.Err() != nil {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		if e.cfg.MaxIterations > 0 && iterations >= e.cfg.MaxIterations {
			return false
		}
		iterations++

		improved := e.reinsertDropped(sol)
		improved = e.relocate(sol) || improved
		improved = e.twoOpt(sol) || improved
		if !improved {
			return false
		}
	}
}

// reinsertDropped tries to place each dropped node at its cheapest feasible
// insertion point. Any feasible insertion wins: the marginal detour is always
// preferable to paying the drop penalty.
func (e *Engine) reinsertDropped(sol *solution) bool {
	c := e.cons
	depot := c.Window(0)
	improved := false

	remaining := sol.dropped[:0]
	for _, k := range sol.dropped {
		bestV, bestPos := -1, -1
		bestDelta := 0.0
		bestStart := 0
		for v := range sol.routes {
			start := sol.starts[v]
			if len(sol.routes[v]) == 0 {
				s, ok := sol.dock.earliestSlot(depot.Start, depot.End)
				if !ok {
					continue
				}
				start = s
			}
			for pos := 0; pos <= len(sol.routes[v]); pos++ {
				cand := insertAt(sol.routes[v], pos, k)
				if _, feasible := c.evaluateRoute(v, start, cand); !feasible {
					continue
				}
				delta := c.routeDistance(cand) - c.routeDistance(sol.routes[v])
				if float64(c.DropPenalty())-delta <= 0 {
					continue
				}
				if bestV < 0 || delta < bestDelta {
					bestV, bestPos, bestDelta, bestStart = v, pos, delta, start
				}
			}
		}
		if bestV < 0 {
			remaining = append(remaining, k)
			continue
		}
		if len(sol.routes[bestV]) == 0 {
			sol.starts[bestV] = bestStart
			sol.dock.commit(bestStart)
			sol.docked[bestV] = true
		}
		sol.routes[bestV] = insertAt(sol.routes[bestV], bestPos, k)
		improved = true
	}
	sol.dropped = remaining
	return improved
}

// relocate moves one node between routes when that shortens the total
// distance. First improvement, fixed scan order for determinism; the sweep
// loop in improve repeats until no move applies.
func (e *Engine) relocate(sol *solution) bool {
	c := e.cons
	for v := range sol.routes {
		for i := 0; i < len(sol.routes[v]); i++ {
			k := sol.routes[v][i]
			without := removeAt(sol.routes[v], i)
			saved := c.routeDistance(sol.routes[v]) - c.routeDistance(without)
			for w := range sol.routes {
				if w == v || len(sol.routes[w]) == 0 {
					continue
				}
				for pos := 0; pos <= len(sol.routes[w]); pos++ {
					cand := insertAt(sol.routes[w], pos, k)
					delta := c.routeDistance(cand) - c.routeDistance(sol.routes[w])
					if delta >= saved {
						continue
					}
					if _, ok := c.evaluateRoute(w, sol.starts[w], cand); !ok {
						continue
					}
					if _, ok := c.evaluateRoute(v, sol.starts[v], without); !ok {
						continue
					}
					sol.routes[w] = cand
					sol.routes[v] = without
					if len(sol.routes[v]) == 0 && sol.docked[v] {
						sol.dock.release(sol.starts[v])
						sol.docked[v] = false
					}
					return true
				}
			}
		}
	}
	return false
}

// twoOpt reverses intra-route segments that shorten the route while keeping
// it feasible.
func (e *Engine) twoOpt(sol *solution) bool {
	c := e.cons
	improved := false
	for v := range sol.routes {
		r := sol.routes[v]
		if len(r) < 3 {
			continue
		}
		for i := 0; i < len(r)-1; i++ {
			for j := i + 1; j < len(r); j++ {
				cand := reverseSegment(r, i, j)
				if c.routeDistance(cand) >= c.routeDistance(r) {
					continue
				}
				if _, ok := c.evaluateRoute(v, sol.starts[v], cand); !ok {
					continue
				}
				sol.routes[v] = cand
				r = cand
				improved = true
			}
		}
	}
	return improved
}

func insertAt(r []int, pos, k int) []int {
	out := make([]int, 0, len(r)+1)
	out = append(out, r[:pos]...)
	out = append(out, k)
	return append(out, r[pos:]...)
}

func removeAt(r []int, i int) []int {
	out := make([]int, 0, len(r)-1)
	out = append(out, r[:i]...)
	return append(out, r[i+1:]...)
}

func reverseSegment(r []int, i, j int) []int {
	out := append([]int(nil), r...)
	for a, b := i, j; a < b; a, b = a+1, b-1 {
		out[a], out[b] = out[b], out[a]
	}
	return out
}
