package solver

// routeEval is the result of replaying one vehicle route against the
// constraint graph: cumulative arrival minutes per stop, total load, total
// distance including the return leg, and the minute the vehicle is back at
// the depot.
type routeEval struct {
	Arrivals []int
	Load     int
	Distance float64
	EndTime  int
}

// evaluateRoute replays nodes for vehicle v departing the depot at minute
// start. It returns ok=false as soon as any hard constraint is violated:
// a window missed even after free waiting, the capacity cap, the distance
// cap, or the time horizon. An empty route is trivially feasible.
func (c *Constraints) evaluateRoute(v, start int, nodes []int) (routeEval, bool) {
	ev := routeEval{Arrivals: make([]int, 0, len(nodes)), EndTime: start}
	if !c.Window(0).Contains(start) {
		return ev, false
	}
	if len(nodes) == 0 {
		return ev, true
	}

	t := start
	prev := 0
	for _, k := range nodes {
		arr := t + c.TransitTime(prev, k)
		w := c.Window(k)
		if arr > w.End {
			return ev, false
		}
		// Waiting for the window to open is free slack.
		if arr < w.Start {
			arr = w.Start
		}
		if arr > c.Horizon() {
			return ev, false
		}
		ev.Load += c.Demand(k)
		if ev.Load > c.Capacity(v) {
			return ev, false
		}
		ev.Distance += c.Distance(prev, k)
		ev.Arrivals = append(ev.Arrivals, arr)
		t = arr
		prev = k
	}

	ev.Distance += c.Distance(prev, 0)
	ev.EndTime = t + c.TransitTime(prev, 0)
	if ev.EndTime > c.Horizon() {
		return ev, false
	}
	if ev.Distance > c.MaxRouteDistance(v) {
		return ev, false
	}
	return ev, true
}

// routeDistance sums the arc distances of a closed route without feasibility
// checks.
func (c *Constraints) routeDistance(nodes []int) float64 {
	if len(nodes) == 0 {
		return 0
	}
	d := 0.0
	prev := 0
	for _, k := range nodes {
		d += c.Distance(prev, k)
		prev = k
	}
	return d + c.Distance(prev, 0)
}
