package metrics

import "github.com/fleetops/routeplan/core/factory"

// Config selects and configures the metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort serves /metrics when a prom sink is configured.
	PrometheusPort string `json:"prometheus_port"`
}
