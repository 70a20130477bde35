package model

// Assignment is the raw output of the search engine: for every vehicle an
// ordered sequence of order-node indices (empty means the vehicle stays at the
// depot), the minute the vehicle departs the depot, and the set of nodes
// excluded through the drop disjunction. Exactly one of the following holds
// for every non-depot node: it appears in one route, or it is listed in
// Dropped.
type Assignment struct {
	Routes  [][]int
	Starts  []int
	Dropped []int
}

// Assigned returns the total number of routed order nodes.
func (a Assignment) Assigned() int {
	n := 0
	for _, r := range a.Routes {
		n += len(r)
	}
	return n
}

// UsedVehicles counts vehicles with at least one stop.
func (a Assignment) UsedVehicles() int {
	n := 0
	for _, r := range a.Routes {
		if len(r) > 0 {
			n++
		}
	}
	return n
}
