package metrics

import "time"

// SolveResult captures one completed solve for observability sinks.
type SolveResult struct {
	SolveID          string
	Status           string
	Orders           int
	VehiclesUsed     int
	Dropped          int
	RejectedOrders   int
	RejectedVehicles int
	TotalCost        float64
	TotalDistance    float64
	Cancelled        bool
	Duration         time.Duration
	Time             time.Time
}

// MetricsSink records solve results. Implementations must be safe for
// concurrent use.
type MetricsSink interface {
	RecordSolveResult(res SolveResult) error
}

// NopSink discards everything.
type NopSink struct{}

// RecordSolveResult implements MetricsSink.
func (NopSink) RecordSolveResult(SolveResult) error { return nil }

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink combines sinks into one.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordSolveResult forwards to every wrapped sink.
func (m *MultiSink) RecordSolveResult(res SolveResult) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordSolveResult(res); err != nil && first == nil {
			first = err
		}
	}
	return first
}
