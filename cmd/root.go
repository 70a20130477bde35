package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "routeplan",
	Short: "Vehicle routing and scheduling engine",
	Long: "routeplan assigns a cost-constrained vehicle fleet to delivery orders\n" +
		"with time windows, a shared loading-dock limit, and per-vehicle capacity\n" +
		"and distance caps, dropping orders that cannot be feasibly served.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
