package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fleetops/routeplan/app"
	"github.com/fleetops/routeplan/config"
	"github.com/fleetops/routeplan/core/problem"
	"github.com/fleetops/routeplan/infra/logger"
)

var (
	inputPath  string
	outputPath string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one routing request",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "request JSON file, - for stdin")
	solveCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "plan JSON file, - for stdout")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	raw, err := readInput(inputPath)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req problem.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	if cfg.Metrics.PrometheusPort != "" {
		go func() {
			if err := svc.Run(ctx); err != nil {
				logger.New("main").Errorf("metrics server: %v", err)
			}
		}()
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	resp, err := svc.Solve(ctx, req)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(outputPath, append(out, '\n'))
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
