package solver

import (
	"context"
	"time"

	"github.com/fleetops/routeplan/core/logger"
	"github.com/fleetops/routeplan/core/model"
)

// Status is the engine's lifecycle state.
type Status int

const (
	Unsolved Status = iota
	Constructing
	Feasible
	Infeasible
)

// String returns a human-readable state name.
func (s Status) String() string {
	switch s {
	case Unsolved:
		return "unsolved"
	case Constructing:
		return "constructing"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Config tunes the optional improvement phase that follows construction.
type Config struct {
	// Improve enables local search after the construction heuristic.
	Improve bool `json:"improve"`
	// ImproveBudgetMs bounds the improvement phase wall time.
	ImproveBudgetMs int `json:"improve_budget_ms"`
	// MaxIterations bounds improvement sweeps; 0 means unbounded.
	MaxIterations int `json:"max_iterations"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ImproveBudgetMs <= 0 {
		c.ImproveBudgetMs = 1000
	}
}

// Outcome is the terminal result of one search. Infeasible is a normal,
// expected outcome the caller must branch on, not an error.
type Outcome struct {
	Status     Status
	Assignment model.Assignment
	// Cost is the objective value: total arc distance plus the drop penalty
	// for every excluded order.
	Cost float64
	// Cancelled marks that the improvement phase was aborted by the caller;
	// the assignment is the best feasible one found before the abort.
	Cancelled bool
}

// Engine runs the cheapest-arc construction heuristic, and optionally a local
// search, over one constraint graph. An Engine is single-use and must not be
// shared across concurrent solves.
type Engine struct {
	cons   *Constraints
	cfg    Config
	log    logger.Logger
	status Status
}

// New creates an engine over the given constraint graph.
func New(cons *Constraints, cfg Config, log logger.Logger) *Engine {
	cfg.SetDefaults()
	return &Engine{cons: cons, cfg: cfg, log: log, status: Unsolved}
}

// Status reports the engine's current lifecycle state.
func (e *Engine) Status() Status { return e.status }

// Solve produces a route assignment. A fleet of zero vehicles or an
// unsatisfiable dock limit yields Infeasible; orders that fit no vehicle are
// dropped rather than failing the search. The construction phase is not
// interruptible; ctx is honored at improvement iteration boundaries only.
func (e *Engine) Solve(ctx context.Context) Outcome {
	if e.cons.NumVehicles() == 0 || e.cons.DockCapacity() <= 0 {
		e.status = Infeasible
		return Outcome{Status: Infeasible}
	}

	e.status = Constructing
	sol := e.construct()

	cancelled := false
	if e.cfg.Improve {
		budget := time.Duration(e.cfg.ImproveBudgetMs) * time.Millisecond
		cancelled = e.improve(ctx, sol, budget)
	}

	e.status = Feasible
	out := Outcome{
		Status:     Feasible,
		Assignment: sol.assignment(),
		Cost:       e.objective(sol),
		Cancelled:  cancelled,
	}
	e.log.Debugw("solve finished", map[string]any{
		"vehicles_used": out.Assignment.UsedVehicles(),
		"dropped":       len(out.Assignment.Dropped),
		"cost":          out.Cost,
		"cancelled":     out.Cancelled,
	})
	return out
}

// objective is the total routed distance plus drop penalties.
func (e *Engine) objective(s *solution) float64 {
	total := 0.0
	for _, r := range s.routes {
		total += e.cons.routeDistance(r)
	}
	return total + float64(e.cons.DropPenalty()*len(s.dropped))
}
