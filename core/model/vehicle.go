package model

import "fmt"

// Vehicle describes one member of the delivery fleet. All four numeric fields
// are strictly positive once the vehicle has passed validation; vehicles
// failing it never participate in routing.
type Vehicle struct {
	RegistrationID string
	Model          string
	Capacity       int
	FixedCost      int
	RatePerKm      int
	FreeDistance   int
}

// Validate checks the numeric fields routing depends on.
func (v Vehicle) Validate() error {
	if v.Capacity <= 0 {
		return fmt.Errorf("vehicle %s: capacity must be positive", v.RegistrationID)
	}
	if v.FixedCost <= 0 {
		return fmt.Errorf("vehicle %s: fixed cost must be positive", v.RegistrationID)
	}
	if v.RatePerKm <= 0 {
		return fmt.Errorf("vehicle %s: rate per km must be positive", v.RegistrationID)
	}
	if v.FreeDistance <= 0 {
		return fmt.Errorf("vehicle %s: free distance must be positive", v.RegistrationID)
	}
	return nil
}

// RouteCost applies the cost-tier formula for a route of the given length in
// kilometers. A vehicle that never left the depot costs nothing; within the
// free-distance allowance only the fixed cost applies; beyond it every extra
// kilometer is billed at the per-km rate.
func (v Vehicle) RouteCost(distanceKm float64) float64 {
	switch {
	case distanceKm == 0:
		return 0
	case distanceKm <= float64(v.FreeDistance):
		return float64(v.FixedCost)
	default:
		return float64(v.FixedCost) + (distanceKm-float64(v.FreeDistance))*float64(v.RatePerKm)
	}
}
