package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/routeplan/config"
	"github.com/fleetops/routeplan/core/geo"
	coremetrics "github.com/fleetops/routeplan/core/metrics"
	"github.com/fleetops/routeplan/core/model"
	"github.com/fleetops/routeplan/core/plan"
	"github.com/fleetops/routeplan/core/problem"
	"github.com/fleetops/routeplan/core/solver"
	coretravel "github.com/fleetops/routeplan/core/travel"
	"github.com/fleetops/routeplan/infra/logger"
	"github.com/fleetops/routeplan/infra/metrics"
	"github.com/fleetops/routeplan/infra/travel"
	"github.com/fleetops/routeplan/internal/eventbus"
)

// Solve outcome statuses as rendered to the caller.
const (
	StatusFeasible   = "feasible"
	StatusInfeasible = "infeasible"
)

// Response is the output contract of one solve. Data is nil when Status is
// infeasible; callers must branch on Status before reading plan fields.
type Response struct {
	SolveID          string                    `json:"solveId"`
	Status           string                    `json:"status"`
	Cancelled        bool                      `json:"cancelled,omitempty"`
	Data             *model.Plan               `json:"data,omitempty"`
	RejectedOrders   []problem.RejectedOrder   `json:"rejectedOrders"`
	RejectedVehicles []problem.RejectedVehicle `json:"rejectedVehicles"`
}

// Service owns the wiring of one solver deployment: configuration, logging,
// metrics sinks, and the event bus. Individual solves share no mutable state
// and may run on separate goroutines.
type Service struct {
	cfg  *config.Config
	log  logger.Logger
	sink coremetrics.MetricsSink
	bus  *eventbus.Bus
	sub  <-chan eventbus.Event
	done chan struct{}
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	s := &Service{
		cfg:  cfg,
		log:  logger.New("service"),
		sink: sink,
		bus:  eventbus.New(),
		done: make(chan struct{}),
	}
	s.sub = s.bus.Subscribe()
	go s.collect()
	return s, nil
}

// collect forwards solve results from the bus to the metrics sink.
func (s *Service) collect() {
	defer close(s.done)
	for ev := range s.sub {
		if res, ok := ev.(coremetrics.SolveResult); ok {
			if err := s.sink.RecordSolveResult(res); err != nil {
				s.log.Errorf("record solve result: %v", err)
			}
		}
	}
}

// Run serves the Prometheus endpoint (when configured) until ctx is
// cancelled. One-shot callers may skip Run entirely.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusPort != "" {
		return metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort)
	}
	<-ctx.Done()
	return nil
}

// Close drains the metrics collector.
func (s *Service) Close() error {
	s.bus.Close()
	<-s.done
	return nil
}

// Solve runs the full pipeline on one request: validation, constraint
// construction, search, and extraction. Hard input failures and external
// lookup failures return an error; an infeasible search is a normal response.
func (s *Service) Solve(ctx context.Context, req problem.Request) (*Response, error) {
	started := time.Now()
	solveID := uuid.NewString()
	s.applyDefaults(&req)

	opts := problem.Options{
		DropPenalty:     s.cfg.Solver.DropPenalty,
		Horizon:         s.cfg.Solver.Horizon,
		ExtraDistanceKm: s.cfg.Solver.ExtraDistanceKm,
		TrafficFactor:   s.cfg.Solver.TrafficFactor,
	}
	prob, rejOrders, rejVehicles, err := problem.Build(req, opts)
	if err != nil {
		return nil, err
	}
	resp := &Response{
		SolveID:          solveID,
		RejectedOrders:   emptyIfNilOrders(rejOrders),
		RejectedVehicles: emptyIfNilVehicles(rejVehicles),
	}

	locs := prob.Locations()
	dist, err := geo.DistanceMatrix(locs)
	if err != nil {
		return nil, err
	}
	timeM := geo.TimeMatrix(dist, prob.Opts.TrafficFactor)

	cons := solver.NewConstraints(prob, dist, timeM)
	engine := solver.New(cons, solver.Config{
		Improve:         s.cfg.Solver.Improve,
		ImproveBudgetMs: s.cfg.Solver.ImproveBudgetMs,
		MaxIterations:   s.cfg.Solver.MaxIterations,
	}, s.log)

	outcome := engine.Solve(ctx)
	if outcome.Status != solver.Feasible {
		resp.Status = StatusInfeasible
		s.publish(coremetrics.SolveResult{
			SolveID:          solveID,
			Status:           StatusInfeasible,
			Orders:           len(prob.Nodes) - 1,
			RejectedOrders:   len(rejOrders),
			RejectedVehicles: len(rejVehicles),
			Duration:         time.Since(started),
			Time:             time.Now(),
		})
		s.log.Warnf("solve %s infeasible: %d vehicles after filtering, dock=%d",
			solveID, len(prob.Vehicles), prob.DockCapacity)
		return resp, nil
	}

	var est coretravel.Estimator
	if s.cfg.Travel.Mode == config.TravelModeHTTP {
		est = travel.NewHTTPEstimator(s.cfg.Travel.HTTP)
	} else {
		est = coretravel.NewMatrixEstimator(locs, dist, timeM)
	}

	routePlan, err := plan.Extract(ctx, prob, outcome.Assignment, est)
	if err != nil {
		return nil, fmt.Errorf("extract plan: %w", err)
	}

	resp.Status = StatusFeasible
	resp.Cancelled = outcome.Cancelled
	resp.Data = routePlan

	result := coremetrics.SolveResult{
		SolveID:          solveID,
		Status:           StatusFeasible,
		Orders:           len(prob.Nodes) - 1,
		VehiclesUsed:     outcome.Assignment.UsedVehicles(),
		Dropped:          len(outcome.Assignment.Dropped),
		RejectedOrders:   len(rejOrders),
		RejectedVehicles: len(rejVehicles),
		Cancelled:        outcome.Cancelled,
		Duration:         time.Since(started),
		Time:             time.Now(),
	}
	if routePlan.Summary.TotalCost != nil {
		result.TotalCost = *routePlan.Summary.TotalCost
	}
	if routePlan.Summary.TotalDistance != nil {
		result.TotalDistance = *routePlan.Summary.TotalDistance
	}
	s.publish(result)

	s.log.Infof("solve %s feasible: %d used vehicles, %d dropped, %d rejected orders",
		solveID, result.VehiclesUsed, result.Dropped, result.RejectedOrders)
	return resp, nil
}

// applyDefaults fills request-level parameters left unset by the caller.
func (s *Service) applyDefaults(req *problem.Request) {
	if req.Dock == 0 {
		req.Dock = s.cfg.Solver.DefaultDock
	}
	if req.LoadingTime == 0 {
		req.LoadingTime = s.cfg.Solver.DefaultLoadingTime
	}
	if req.UnloadingTime == 0 {
		req.UnloadingTime = s.cfg.Solver.DefaultUnloadingTime
	}
}

func (s *Service) publish(res coremetrics.SolveResult) {
	s.bus.Publish(res)
}

func emptyIfNilOrders(in []problem.RejectedOrder) []problem.RejectedOrder {
	if in == nil {
		return []problem.RejectedOrder{}
	}
	return in
}

func emptyIfNilVehicles(in []problem.RejectedVehicle) []problem.RejectedVehicle {
	if in == nil {
		return []problem.RejectedVehicle{}
	}
	return in
}
