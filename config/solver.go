package config

import "fmt"

// SolverConfig tunes the routing engine and supplies request-level defaults.
type SolverConfig struct {
	// DropPenalty is the fixed cost of excluding one order from all routes.
	DropPenalty int `json:"drop_penalty"`
	// Horizon bounds every time cumulative variable, in minutes.
	Horizon int `json:"horizon"`
	// ExtraDistanceKm widens every vehicle's free-distance travel cap.
	ExtraDistanceKm int `json:"extra_distance_km"`
	// TrafficFactor converts kilometers to minutes for the derived time matrix.
	TrafficFactor float64 `json:"traffic_factor"`
	// DefaultDock applies when the request leaves the dock limit unset.
	DefaultDock int `json:"default_dock"`
	// DefaultLoadingTime applies when the request leaves it unset, minutes.
	DefaultLoadingTime int `json:"default_loading_time"`
	// DefaultUnloadingTime applies when the request leaves it unset, minutes.
	DefaultUnloadingTime int `json:"default_unloading_time"`
	// Improve enables the local-search phase after construction.
	Improve bool `json:"improve"`
	// ImproveBudgetMs bounds the improvement phase wall time.
	ImproveBudgetMs int `json:"improve_budget_ms"`
	// MaxIterations bounds improvement sweeps; 0 means unbounded.
	MaxIterations int `json:"max_iterations"`
}

// SetDefaults applies the engine's historical tuning.
func (c *SolverConfig) SetDefaults() {
	if c.DropPenalty == 0 {
		c.DropPenalty = 1000
	}
	if c.Horizon == 0 {
		c.Horizon = 10000
	}
	if c.TrafficFactor == 0 {
		c.TrafficFactor = 6
	}
	if c.DefaultDock == 0 {
		c.DefaultDock = 10
	}
	if c.DefaultLoadingTime == 0 {
		c.DefaultLoadingTime = 30
	}
	if c.DefaultUnloadingTime == 0 {
		c.DefaultUnloadingTime = 30
	}
	if c.ImproveBudgetMs == 0 {
		c.ImproveBudgetMs = 1000
	}
}

// Validate checks mandatory fields.
func (c SolverConfig) Validate() error {
	if c.DropPenalty <= 0 {
		return fmt.Errorf("drop_penalty must be positive")
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive")
	}
	if c.TrafficFactor <= 0 {
		return fmt.Errorf("traffic_factor must be positive")
	}
	if c.ExtraDistanceKm < 0 {
		return fmt.Errorf("extra_distance_km cannot be negative")
	}
	return nil
}
