package plan

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/fleetops/routeplan/core/model"
	"github.com/fleetops/routeplan/core/problem"
	"github.com/fleetops/routeplan/core/travel"
)

func fixtureProblem(nodes []model.Node, vehicles []model.Vehicle) *problem.Problem {
	ref, _ := time.Parse(model.TimeLayout, "2023-01-10 08:00:00")
	return &problem.Problem{
		Nodes:         nodes,
		Vehicles:      vehicles,
		DockCapacity:  2,
		LoadingTime:   30,
		UnloadingTime: 10,
		RefStart:      ref,
		Opts:          problem.DefaultOptions(),
	}
}

func fixtureEstimator(p *problem.Problem, rows [][]float64) *travel.MatrixEstimator {
	n := len(rows)
	d := mat.NewDense(n, n, nil)
	for i, r := range rows {
		for j, v := range r {
			d.Set(i, j, v)
		}
	}
	// Minutes equal kilometers in these fixtures.
	return travel.NewMatrixEstimator(p.Locations(), d, d)
}

func loc(i int) model.Location { return model.Location{Lon: float64(i), Lat: 28.0} }

func TestExtractSingleRoute(t *testing.T) {
	p := fixtureProblem(
		[]model.Node{
			{Code: model.DepotCode, Name: "DC", Location: loc(0), Window: model.TimeWindow{Start: 0, End: 1000}},
			{Code: 1, Name: "a", Location: loc(1), Weight: 10, Window: model.TimeWindow{Start: 0, End: 720}},
			{Code: 2, Name: "b", Location: loc(2), Weight: 20, Window: model.TimeWindow{Start: 0, End: 720}},
		},
		[]model.Vehicle{{RegistrationID: "KA-01", Capacity: 100, FixedCost: 500, RatePerKm: 10, FreeDistance: 100}},
	)
	est := fixtureEstimator(p, [][]float64{
		{0, 10, 12},
		{10, 0, 5},
		{12, 5, 0},
	})
	asg := model.Assignment{Routes: [][]int{{1, 2}}, Starts: []int{0}}

	out, err := Extract(context.Background(), p, asg, est)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Stops) != 4 {
		t.Fatalf("stops %d", len(out.Stops))
	}
	for i, s := range out.Stops {
		if s.StopNumber != i {
			t.Fatalf("stop %d numbered %d", i, s.StopNumber)
		}
		if s.RegistrationID != "KA-01" {
			t.Fatalf("stop %d vehicle %q", i, s.RegistrationID)
		}
	}
	// Loading at the depot, then cumulative load, carried through the return.
	for i, want := range []int{0, 10, 30, 30} {
		if got := out.Stops[i].LoadAfterStop; got != want {
			t.Fatalf("stop %d load %d, want %d", i, got, want)
		}
	}
	// Departure 08:00, 30 min loading, then 10 and 5 minute legs with 10 min
	// unloadings in between.
	wantTimes := [][2]string{
		{"2023-01-10 08:00:00", "2023-01-10 08:30:00"},
		{"2023-01-10 08:40:00", "2023-01-10 08:50:00"},
		{"2023-01-10 08:55:00", "2023-01-10 09:05:00"},
		{"2023-01-10 09:17:00", "2023-01-10 09:27:00"},
	}
	for i, want := range wantTimes {
		if out.Stops[i].DeliveryTimeStart != want[0] || out.Stops[i].DeliveryTimeEnd != want[1] {
			t.Fatalf("stop %d times %s / %s, want %s / %s",
				i, out.Stops[i].DeliveryTimeStart, out.Stops[i].DeliveryTimeEnd, want[0], want[1])
		}
	}

	if len(out.Stats) != 1 {
		t.Fatalf("stats %d", len(out.Stats))
	}
	st := out.Stats[0]
	if st.TotalDistance != 27 || st.TotalLoad != 30 || st.TotalTime != 77 {
		t.Fatalf("stats %+v", st)
	}
	// 27 km is within the 100 km free allowance: fixed cost only.
	if st.TotalCost != 500 {
		t.Fatalf("cost %f", st.TotalCost)
	}
	if st.CostPerLoad == nil || *st.CostPerLoad != 500.0/30 {
		t.Fatalf("cost per load %v", st.CostPerLoad)
	}
	if st.CostPerKm == nil || *st.CostPerKm != 500.0/27 {
		t.Fatalf("cost per km %v", st.CostPerKm)
	}
	if len(out.Underutilized) != 0 || len(out.Dropped) != 0 {
		t.Fatalf("unexpected classifications: %+v", out)
	}
}

func TestExtractCostTiers(t *testing.T) {
	p := fixtureProblem(
		[]model.Node{
			{Code: model.DepotCode, Location: loc(0), Window: model.TimeWindow{Start: 0, End: 1000}},
			{Code: 1, Location: loc(1), Weight: 10, Window: model.TimeWindow{Start: 0, End: 1000}},
			{Code: 2, Location: loc(2), Weight: 20, Window: model.TimeWindow{Start: 0, End: 1000}},
		},
		[]model.Vehicle{
			{RegistrationID: "IDLE", Capacity: 100, FixedCost: 500, RatePerKm: 10, FreeDistance: 100},
			{RegistrationID: "FREE", Capacity: 100, FixedCost: 500, RatePerKm: 10, FreeDistance: 100},
			{RegistrationID: "OVER", Capacity: 100, FixedCost: 500, RatePerKm: 10, FreeDistance: 100},
		},
	)
	est := fixtureEstimator(p, [][]float64{
		{0, 50, 65},
		{50, 0, 200},
		{65, 200, 0},
	})
	asg := model.Assignment{
		Routes: [][]int{{}, {1}, {2}},
		Starts: []int{0, 0, 0},
	}

	out, err := Extract(context.Background(), p, asg, est)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Underutilized) != 1 || out.Underutilized[0].RegistrationID != "IDLE" {
		t.Fatalf("underutilized %+v", out.Underutilized)
	}
	if len(out.Stats) != 2 {
		t.Fatalf("stats %+v", out.Stats)
	}
	// 100 km round trip lands exactly on the free allowance: fixed cost only.
	if out.Stats[0].RegistrationID != "FREE" || out.Stats[0].TotalCost != 500 {
		t.Fatalf("free tier %+v", out.Stats[0])
	}
	// 130 km: fixed plus 30 chargeable km at the per-km rate.
	if out.Stats[1].RegistrationID != "OVER" || out.Stats[1].TotalCost != 800 {
		t.Fatalf("over tier %+v", out.Stats[1])
	}
	// Idle vehicles contribute no stops and are excluded from the totals.
	if got := *out.Summary.TotalVehicles; got != 2 {
		t.Fatalf("total vehicles %d", got)
	}
	if got := *out.Summary.TotalCost; got != 1300 {
		t.Fatalf("total cost %f", got)
	}
	if got := *out.Summary.TotalDistance; got != 230 {
		t.Fatalf("total distance %f", got)
	}
	if got := *out.Summary.TotalLoad; got != 30 {
		t.Fatalf("total load %d", got)
	}
	if out.Summary.AvgCostPerLoad == nil || *out.Summary.AvgCostPerLoad != 1300.0/30 {
		t.Fatalf("avg cost per load %v", out.Summary.AvgCostPerLoad)
	}
	if out.Summary.AvgCostPerDistance == nil || *out.Summary.AvgCostPerDistance != 1300.0/230 {
		t.Fatalf("avg cost per distance %v", out.Summary.AvgCostPerDistance)
	}
}

func TestExtractDroppedOrders(t *testing.T) {
	p := fixtureProblem(
		[]model.Node{
			{Code: model.DepotCode, Location: loc(0), Window: model.TimeWindow{Start: 0, End: 1000}},
			{
				Code: 7, Name: "heavy", Location: loc(1), Weight: 500,
				Window:   model.TimeWindow{Start: 60, End: 240},
				RawStart: "2023-01-10 09:00:00", RawEnd: "2023-01-10 12:00:00",
				RequestID: "req-7",
			},
		},
		[]model.Vehicle{{RegistrationID: "KA-01", Capacity: 100, FixedCost: 500, RatePerKm: 10, FreeDistance: 100}},
	)
	est := fixtureEstimator(p, [][]float64{{0, 10}, {10, 0}})
	asg := model.Assignment{Routes: [][]int{{}}, Starts: []int{0}, Dropped: []int{1}}

	out, err := Extract(context.Background(), p, asg, est)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Dropped) != 1 {
		t.Fatalf("dropped %+v", out.Dropped)
	}
	d := out.Dropped[0]
	if d.CustomerCode != 7 || d.CustomerName != "heavy" || d.OrderWeight != 500 {
		t.Fatalf("dropped record %+v", d)
	}
	// The original window strings are echoed back, not the minute offsets.
	if d.DeliveryTimeStart != "2023-01-10 09:00:00" || d.DeliveryTimeEnd != "2023-01-10 12:00:00" {
		t.Fatalf("dropped window %q %q", d.DeliveryTimeStart, d.DeliveryTimeEnd)
	}
	if d.RequestID != "req-7" {
		t.Fatalf("request id %v", d.RequestID)
	}
}

func TestExtractAllIdle(t *testing.T) {
	p := fixtureProblem(
		[]model.Node{{Code: model.DepotCode, Location: loc(0), Window: model.TimeWindow{Start: 0, End: 1000}}},
		[]model.Vehicle{
			{RegistrationID: "KA-01", Capacity: 100, FixedCost: 500, RatePerKm: 10, FreeDistance: 100},
			{RegistrationID: "KA-02", Capacity: 100, FixedCost: 500, RatePerKm: 10, FreeDistance: 100},
		},
	)
	est := fixtureEstimator(p, [][]float64{{0}})
	asg := model.Assignment{Routes: [][]int{{}, {}}, Starts: []int{0, 0}}

	out, err := Extract(context.Background(), p, asg, est)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Underutilized) != 2 || len(out.Stats) != 0 || len(out.Stops) != 0 {
		t.Fatalf("plan %+v", out)
	}
	// Totals are present and zero; averages are left out.
	if out.Summary.TotalCost == nil || *out.Summary.TotalCost != 0 {
		t.Fatalf("total cost %v", out.Summary.TotalCost)
	}
	if got := *out.Summary.TotalVehicles; got != 0 {
		t.Fatalf("total vehicles %d", got)
	}
	if out.Summary.AvgCostPerLoad != nil || out.Summary.AvgCostPerDistance != nil {
		t.Fatalf("averages present: %+v", out.Summary)
	}
}

func TestExtractDeterministic(t *testing.T) {
	p := fixtureProblem(
		[]model.Node{
			{Code: model.DepotCode, Location: loc(0), Window: model.TimeWindow{Start: 0, End: 1000}},
			{Code: 1, Location: loc(1), Weight: 10, Window: model.TimeWindow{Start: 0, End: 720}},
		},
		[]model.Vehicle{{RegistrationID: "KA-01", Capacity: 100, FixedCost: 500, RatePerKm: 10, FreeDistance: 100}},
	)
	est := fixtureEstimator(p, [][]float64{{0, 10}, {10, 0}})
	asg := model.Assignment{Routes: [][]int{{1}}, Starts: []int{0}}

	first, err := Extract(context.Background(), p, asg, est)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	second, err := Extract(context.Background(), p, asg, est)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("extraction is not deterministic")
	}
}

type failingEstimator struct{ after int }

func (f *failingEstimator) Leg(_ context.Context, from, to model.Location) (travel.Leg, error) {
	if f.after <= 0 {
		return travel.Leg{}, &travel.LookupError{From: from, To: to, Err: errors.New("upstream unavailable")}
	}
	f.after--
	return travel.Leg{DistanceKm: 10, Minutes: 10}, nil
}

func TestExtractEstimatorFailure(t *testing.T) {
	p := fixtureProblem(
		[]model.Node{
			{Code: model.DepotCode, Location: loc(0), Window: model.TimeWindow{Start: 0, End: 1000}},
			{Code: 1, Location: loc(1), Weight: 10, Window: model.TimeWindow{Start: 0, End: 720}},
			{Code: 2, Location: loc(2), Weight: 10, Window: model.TimeWindow{Start: 0, End: 720}},
		},
		[]model.Vehicle{{RegistrationID: "KA-01", Capacity: 100, FixedCost: 500, RatePerKm: 10, FreeDistance: 100}},
	)
	asg := model.Assignment{Routes: [][]int{{1, 2}}, Starts: []int{0}}

	// Second leg fails; the extraction fails as a whole.
	_, err := Extract(context.Background(), p, asg, &failingEstimator{after: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	var le *travel.LookupError
	if !errors.As(err, &le) {
		t.Fatalf("expected LookupError, got %v", err)
	}
}
