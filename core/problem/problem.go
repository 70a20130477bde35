package problem

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fleetops/routeplan/core/model"
)

// Hard validation failures. The solve never starts when one of these is
// returned; per-record failures land in the rejection lists instead.
var (
	ErrNoOrders   = errors.New("attribute 'orders' not present")
	ErrNoVehicles = errors.New("attribute 'vehicles' not present")
	ErrNoDepot    = errors.New("no depot record (customer code -100) among orders")
)

// Options carries solver tunables that are not part of the request payload.
type Options struct {
	// DropPenalty is the fixed cost of excluding one order from all routes.
	DropPenalty int
	// Horizon bounds every time cumulative variable, in minutes.
	Horizon int
	// ExtraDistanceKm is added to every vehicle's free-distance cap when
	// limiting route length.
	ExtraDistanceKm int
	// TrafficFactor converts kilometers to minutes for the derived time
	// matrix.
	TrafficFactor float64
}

// DefaultOptions mirrors the engine's historical tuning.
func DefaultOptions() Options {
	return Options{DropPenalty: 1000, Horizon: 10000, ExtraDistanceKm: 0, TrafficFactor: 6}
}

// Problem is the validated, immutable model of one solve: depot at node 0,
// orders at nodes 1..N, the filtered fleet, and the shared depot parameters.
type Problem struct {
	Nodes         []model.Node
	Vehicles      []model.Vehicle
	DockCapacity  int
	LoadingTime   int
	UnloadingTime int
	RefStart      time.Time
	Opts          Options
}

// Locations returns the node locations in node order.
func (p *Problem) Locations() []model.Location {
	locs := make([]model.Location, len(p.Nodes))
	for i, n := range p.Nodes {
		locs[i] = n.Location
	}
	return locs
}

// MaxRouteDistance is vehicle v's distance cap including the configured extra
// allowance.
func (p *Problem) MaxRouteDistance(v int) float64 {
	return float64(p.Vehicles[v].FreeDistance + p.Opts.ExtraDistanceKm)
}

// ServiceTime is the stop duration charged when departing node i: loading at
// the depot, unloading everywhere else.
func (p *Problem) ServiceTime(i int) int {
	if i == 0 {
		return p.LoadingTime
	}
	return p.UnloadingTime
}

// Build validates the raw request and produces the problem model plus the two
// rejection lists. Validation is applied independently per record; only a
// schema mismatch or a missing section aborts the whole batch.
func Build(req Request, opts Options) (*Problem, []RejectedOrder, []RejectedVehicle, error) {
	if req.Orders == nil {
		return nil, nil, nil, ErrNoOrders
	}
	if req.Vehicles == nil {
		return nil, nil, nil, ErrNoVehicles
	}
	ref, err := time.Parse(model.TimeLayout, req.DCStart)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse dcstart %q: %w", req.DCStart, err)
	}
	for _, rec := range req.Orders {
		if !matchesSchema(rec, OrderFields) {
			return nil, nil, nil, &SchemaMismatchError{Section: "orders", Expected: OrderFields}
		}
	}
	for _, rec := range req.Vehicles {
		if !matchesSchema(rec, VehicleFields) {
			return nil, nil, nil, &SchemaMismatchError{Section: "vehicles", Expected: VehicleFields}
		}
	}

	// Lighter orders are numbered first; the heuristic visits candidates in
	// node order, so this biases construction toward packing small orders.
	orders := make([]map[string]any, len(req.Orders))
	copy(orders, req.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		wi, _ := asFloat(orders[i]["orderWeight"])
		wj, _ := asFloat(orders[j]["orderWeight"])
		return wi < wj
	})

	var depot *model.Node
	nodes := make([]model.Node, 0, len(orders))
	var rejectedOrders []RejectedOrder
	for _, rec := range orders {
		code, hasCode := asFloat(rec["customerCode"])
		if hasCode && int64(code) == model.DepotCode {
			lon, okLon := asFloat(rec["longitude"])
			lat, okLat := asFloat(rec["latitude"])
			if !okLon || !okLat {
				return nil, nil, nil, ErrNoDepot
			}
			name, _ := asString(rec["customerName"])
			depot = &model.Node{
				Code:      model.DepotCode,
				Name:      name,
				Location:  model.Location{Lon: lon, Lat: lat},
				Weight:    0,
				Window:    model.TimeWindow{Start: 0, End: 1000},
				RequestID: rec["requestId"],
			}
			continue
		}
		node, reason := buildOrderNode(rec, ref)
		if reason != "" {
			rejectedOrders = append(rejectedOrders, RejectedOrder{Record: rec, Reason: reason})
			continue
		}
		nodes = append(nodes, node)
	}
	if depot == nil {
		return nil, nil, nil, ErrNoDepot
	}

	vehicles := make([]model.Vehicle, 0, len(req.Vehicles))
	var rejectedVehicles []RejectedVehicle
	for _, rec := range req.Vehicles {
		v, reason := buildVehicle(rec)
		if reason != "" {
			rejectedVehicles = append(rejectedVehicles, RejectedVehicle{Record: rec, Reason: reason})
			continue
		}
		vehicles = append(vehicles, v)
	}

	p := &Problem{
		Nodes:         append([]model.Node{*depot}, nodes...),
		Vehicles:      vehicles,
		DockCapacity:  req.Dock,
		LoadingTime:   req.LoadingTime,
		UnloadingTime: req.UnloadingTime,
		RefStart:      ref,
		Opts:          opts,
	}
	return p, rejectedOrders, rejectedVehicles, nil
}

// buildOrderNode validates one order record. It returns a non-empty reason on
// the first rule the record fails.
func buildOrderNode(rec map[string]any, ref time.Time) (model.Node, string) {
	lat, okLat := asFloat(rec["latitude"])
	lon, okLon := asFloat(rec["longitude"])
	if !okLat || !okLon {
		return model.Node{}, "latitude or longitude missing"
	}
	weight, okW := asInt(rec["orderWeight"])
	if !okW || weight <= 0 {
		return model.Node{}, "order weight missing or not positive"
	}
	code, okC := asFloat(rec["customerCode"])
	if !okC {
		return model.Node{}, "customer code missing"
	}
	rawStart, okS := asString(rec["deliveryTimeStart"])
	if !okS {
		return model.Node{}, "delivery window start missing"
	}
	rawEnd, okE := asString(rec["deliveryTimeEnd"])
	if !okE {
		return model.Node{}, "delivery window end missing"
	}
	start, err := windowMinutes(rawStart, ref)
	if err != nil {
		return model.Node{}, "delivery window start missing"
	}
	end, err := windowMinutes(rawEnd, ref)
	if err != nil {
		return model.Node{}, "delivery window end missing"
	}
	name, _ := asString(rec["customerName"])
	return model.Node{
		Code:      int64(code),
		Name:      name,
		Location:  model.Location{Lon: lon, Lat: lat},
		Weight:    weight,
		Window:    model.TimeWindow{Start: start, End: end},
		RawStart:  rawStart,
		RawEnd:    rawEnd,
		RequestID: rec["requestId"],
	}, ""
}

// buildVehicle validates one vehicle record.
func buildVehicle(rec map[string]any) (model.Vehicle, string) {
	capacity, ok := asInt(rec["capacity"])
	if !ok || capacity <= 0 {
		return model.Vehicle{}, "capacity missing or not positive"
	}
	fixed, ok := asInt(rec["fixedCost"])
	if !ok || fixed <= 0 {
		return model.Vehicle{}, "fixed cost missing or not positive"
	}
	rate, ok := asInt(rec["ratePerKm"])
	if !ok || rate <= 0 {
		return model.Vehicle{}, "rate per km missing or not positive"
	}
	free, ok := asInt(rec["freeDistance"])
	if !ok || free <= 0 {
		return model.Vehicle{}, "free distance missing or not positive"
	}
	id, _ := asString(rec["registrationId"])
	mdl, _ := asString(rec["model"])
	return model.Vehicle{
		RegistrationID: id,
		Model:          mdl,
		Capacity:       capacity,
		FixedCost:      fixed,
		RatePerKm:      rate,
		FreeDistance:   free,
	}, ""
}

// windowMinutes converts a window timestamp to whole minutes after the
// reference departure, truncated toward zero.
func windowMinutes(raw string, ref time.Time) (int, error) {
	ts, err := time.Parse(model.TimeLayout, raw)
	if err != nil {
		return 0, err
	}
	return int(ts.Sub(ref).Minutes()), nil
}
