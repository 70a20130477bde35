package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetops/routeplan/core/model"
	"github.com/fleetops/routeplan/core/problem"
	"github.com/fleetops/routeplan/core/travel"
)

// Extract decodes a route assignment into the costed, classified plan. Leg
// distances and times come from the estimator, sequentially in route order;
// with the default matrix estimator this is a pure in-memory walk, with an
// external estimator each traversed leg is one lookup and a failed lookup
// fails the whole extraction. Extraction is deterministic: the same
// assignment and problem always produce an identical plan.
func Extract(ctx context.Context, p *problem.Problem, asg model.Assignment, est travel.Estimator) (*model.Plan, error) {
	out := &model.Plan{
		Dropped:       []model.DroppedOrder{},
		Stops:         []model.Stop{},
		Stats:         []model.VehicleStats{},
		Underutilized: []model.UnderutilizedVehicle{},
	}

	for _, k := range asg.Dropped {
		n := p.Nodes[k]
		out.Dropped = append(out.Dropped, model.DroppedOrder{
			CustomerCode:      n.Code,
			CustomerName:      n.Name,
			DeliveryTimeStart: n.RawStart,
			DeliveryTimeEnd:   n.RawEnd,
			OrderWeight:       n.Weight,
			Latitude:          n.Location.Lat,
			Longitude:         n.Location.Lon,
			RequestID:         n.RequestID,
		})
	}

	var (
		totalCost     float64
		totalDistance float64
		totalLoad     int
		totalTime     int
		activeFleet   int
	)

	for v := range p.Vehicles {
		veh := p.Vehicles[v]
		route := asg.Routes[v]
		walk, err := walkRoute(ctx, p, veh, asg.Starts[v], route, est)
		if err != nil {
			return nil, err
		}

		if walk.distance == 0 {
			out.Underutilized = append(out.Underutilized, model.UnderutilizedVehicle{
				RegistrationID: veh.RegistrationID,
				FixedCost:      veh.FixedCost,
				Capacity:       veh.Capacity,
				RatePerKm:      veh.RatePerKm,
				FreeDistance:   veh.FreeDistance,
			})
			continue
		}

		cost := veh.RouteCost(walk.distance)
		stats := model.VehicleStats{
			RegistrationID: veh.RegistrationID,
			TotalCost:      cost,
			TotalDistance:  walk.distance,
			TotalLoad:      walk.load,
			TotalTime:      walk.endTime,
		}
		if walk.load > 0 {
			perLoad := cost / float64(walk.load)
			stats.CostPerLoad = &perLoad
		}
		perKm := cost / walk.distance
		stats.CostPerKm = &perKm
		out.Stats = append(out.Stats, stats)
		out.Stops = append(out.Stops, walk.stops...)

		activeFleet++
		totalCost += cost
		totalDistance += walk.distance
		totalLoad += walk.load
		totalTime += walk.endTime
	}

	out.Summary = model.Summary{
		TotalCost:     &totalCost,
		TotalDistance: &totalDistance,
		TotalLoad:     &totalLoad,
		TotalTime:     &totalTime,
		TotalVehicles: &activeFleet,
	}
	// Averages are left out entirely when a denominator is zero.
	if totalLoad > 0 && totalDistance > 0 {
		avgLoad := totalCost / float64(totalLoad)
		avgDist := totalCost / totalDistance
		out.Summary.AvgCostPerLoad = &avgLoad
		out.Summary.AvgCostPerDistance = &avgDist
	}
	return out, nil
}

// routeWalk accumulates one vehicle's stops and totals.
type routeWalk struct {
	stops    []model.Stop
	load     int
	distance float64
	endTime  int
}

// walkRoute replays one route stop by stop. minute counters are relative to
// the reference departure; timestamps are rendered when each stop record is
// emitted. The closing stop is the return to the depot.
func walkRoute(ctx context.Context, p *problem.Problem, veh model.Vehicle, start int, route []int, est travel.Estimator) (routeWalk, error) {
	depot := p.Nodes[0]
	w := routeWalk{endTime: start}
	if len(route) == 0 {
		return w, nil
	}

	// Stop 0: loading at the depot.
	w.stops = append(w.stops, stopRecord(p, veh.RegistrationID, 0, depot, start, p.LoadingTime, 0))

	t := start
	prev := depot
	prevIdx := 0
	for i, k := range route {
		n := p.Nodes[k]
		leg, err := est.Leg(ctx, prev.Location, n.Location)
		if err != nil {
			return w, fmt.Errorf("leg %d->%d: %w", prevIdx, k, err)
		}
		arr := t + p.ServiceTime(prevIdx) + leg.Minutes
		if arr < n.Window.Start {
			arr = n.Window.Start
		}
		w.load += n.Weight
		w.distance += leg.DistanceKm
		w.stops = append(w.stops, stopRecord(p, veh.RegistrationID, i+1, n, arr, p.UnloadingTime, w.load))
		t = arr
		prev = n
		prevIdx = k
	}

	// Closing stop: back at the depot.
	leg, err := est.Leg(ctx, prev.Location, depot.Location)
	if err != nil {
		return w, fmt.Errorf("leg %d->0: %w", prevIdx, err)
	}
	arr := t + p.ServiceTime(prevIdx) + leg.Minutes
	w.distance += leg.DistanceKm
	w.endTime = arr
	w.stops = append(w.stops, stopRecord(p, veh.RegistrationID, len(route)+1, depot, arr, p.UnloadingTime, w.load))
	return w, nil
}

// stopRecord renders one visit with its computed arrival/departure window.
func stopRecord(p *problem.Problem, reg string, number int, n model.Node, arrival, service, load int) model.Stop {
	startTS := p.RefStart.Add(time.Duration(arrival) * time.Minute)
	endTS := p.RefStart.Add(time.Duration(arrival+service) * time.Minute)
	return model.Stop{
		RegistrationID:    reg,
		StopNumber:        number,
		CustomerCode:      n.Code,
		CustomerName:      n.Name,
		DeliveryTimeStart: startTS.Format(model.TimeLayout),
		DeliveryTimeEnd:   endTS.Format(model.TimeLayout),
		OrderWeight:       n.Weight,
		Latitude:          n.Location.Lat,
		Longitude:         n.Location.Lon,
		RequestID:         n.RequestID,
		LoadAfterStop:     load,
	}
}
