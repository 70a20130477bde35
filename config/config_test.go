package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYaml(t *testing.T) {
	path := writeFile(t, "config.yaml", `
solver:
  drop_penalty: 500
  improve: true
  improve_budget_ms: 250
travel:
  mode: http
  http:
    base_url: http://matrix.local
    api_key: secret
metrics:
  prometheus_port: "9090"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"drop_penalty", cfg.Solver.DropPenalty, 500},
		{"horizon default", cfg.Solver.Horizon, 10000},
		{"traffic_factor default", cfg.Solver.TrafficFactor, 6.0},
		{"default_dock", cfg.Solver.DefaultDock, 10},
		{"improve", cfg.Solver.Improve, true},
		{"improve_budget_ms", cfg.Solver.ImproveBudgetMs, 250},
		{"travel mode", cfg.Travel.Mode, "http"},
		{"travel base url", cfg.Travel.HTTP.BaseURL, "http://matrix.local"},
		{"travel timeout default", cfg.Travel.HTTP.TimeoutSeconds, 10},
		{"prometheus port", cfg.Metrics.PrometheusPort, "9090"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"solver":{"horizon":5000}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Solver.Horizon != 5000 {
		t.Fatalf("horizon %d", cfg.Solver.Horizon)
	}
	if cfg.Solver.DropPenalty != 1000 {
		t.Fatalf("drop penalty %d", cfg.Solver.DropPenalty)
	}
	if cfg.Travel.Mode != TravelModeMatrix {
		t.Fatalf("travel mode %q", cfg.Travel.Mode)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "config.toml", "solver = 1")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", "solver:\n  drop_penalty: 500\n")
	t.Setenv("RP_SOLVER__DROP_PENALTY", "750")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Solver.DropPenalty != 750 {
		t.Fatalf("drop penalty %d, want env override 750", cfg.Solver.DropPenalty)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"negative extra distance", "solver:\n  extra_distance_km: -5\n"},
		{"unknown travel mode", "travel:\n  mode: teleport\n"},
		{"http mode without base url", "travel:\n  mode: http\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "config.yaml", tc.content)
			if _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Solver.DropPenalty != 1000 || cfg.Solver.Horizon != 10000 {
		t.Fatalf("solver defaults %+v", cfg.Solver)
	}
	if cfg.Travel.Mode != TravelModeMatrix {
		t.Fatalf("travel mode %q", cfg.Travel.Mode)
	}
	if err := cfg.Solver.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
