package config

import (
	"fmt"

	"github.com/fleetops/routeplan/infra/travel"
)

// Travel modes.
const (
	TravelModeMatrix = "matrix"
	TravelModeHTTP   = "http"
)

// TravelConfig selects how per-leg distance and time are resolved during
// solution extraction: from the precomputed haversine matrices, or from an
// external distance-matrix service one leg at a time.
type TravelConfig struct {
	Mode string        `json:"mode"`
	HTTP travel.Config `json:"http"`
}

// SetDefaults applies sane defaults.
func (c *TravelConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = TravelModeMatrix
	}
	c.HTTP.SetDefaults()
}

// Validate checks mandatory fields.
func (c TravelConfig) Validate() error {
	switch c.Mode {
	case TravelModeMatrix:
		return nil
	case TravelModeHTTP:
		return c.HTTP.Validate()
	default:
		return fmt.Errorf("unknown travel mode %s", c.Mode)
	}
}
