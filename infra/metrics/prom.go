package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/fleetops/routeplan/core/metrics"
)

// PromSink records solve outcomes as Prometheus metrics.
type PromSink struct {
	solves   *prometheus.CounterVec
	dropped  prometheus.Counter
	duration *prometheus.HistogramVec
	cost     prometheus.Histogram
}

// NewPromSink registers solve metrics on the default Prometheus registerer.
// The metrics HTTP server is started separately by the app layer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer. A nil
// registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routeplan_solves_total",
		Help: "Total number of solves by outcome status",
	}, []string{"status"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routeplan_dropped_orders_total",
		Help: "Total number of orders excluded through the drop disjunction",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "routeplan_solve_duration_seconds",
		Help:    "Wall time of one solve including extraction",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	cost := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeplan_plan_cost",
		Help:    "Total monetary cost of produced plans",
		Buckets: prometheus.ExponentialBuckets(100, 4, 8),
	})

	for _, c := range []prometheus.Collector{solves, dropped, duration, cost} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{solves: solves, dropped: dropped, duration: duration, cost: cost}, nil
}

// RecordSolveResult implements MetricsSink.
func (s *PromSink) RecordSolveResult(res coremetrics.SolveResult) error {
	s.solves.WithLabelValues(res.Status).Inc()
	s.dropped.Add(float64(res.Dropped))
	s.duration.WithLabelValues(res.Status).Observe(res.Duration.Seconds())
	if res.Status == "feasible" {
		s.cost.Observe(res.TotalCost)
	}
	return nil
}
