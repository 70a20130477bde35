package model

// DepotCode is the reserved customer code marking the depot record in the
// order inventory.
const DepotCode = -100

// TimeLayout is the timestamp format used across the input and output
// contracts.
const TimeLayout = "2006-01-02 15:04:05"

// TimeWindow bounds a delivery in whole minutes relative to the reference
// departure instant.
type TimeWindow struct {
	Start int
	End   int
}

// Contains reports whether minute t lies inside the window.
func (w TimeWindow) Contains(t int) bool { return t >= w.Start && t <= w.End }

// Node is a routing graph vertex. Node 0 is always the depot with weight 0
// and window [0, 1000]; nodes 1..N are orders.
type Node struct {
	Code     int64
	Name     string
	Location Location
	Weight   int
	Window   TimeWindow
	// RawStart and RawEnd keep the original window timestamps for echoing
	// dropped orders back unchanged.
	RawStart  string
	RawEnd    string
	RequestID any
}

// IsDepot reports whether the node carries the depot sentinel code.
func (n Node) IsDepot() bool { return n.Code == DepotCode }
