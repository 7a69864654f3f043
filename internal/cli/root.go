package cli

import (
	"fmt"
	"os"

	"github.com/rileyhilliard/hazmon/internal/config"
	"github.com/spf13/cobra"
)

// configFlag is the persistent --config path.
var configFlag string

var rootCmd = &cobra.Command{
	Use:   "hazmon",
	Short: "Terminal dashboard for the hazard sensor network",
	Long: `hazmon connects to the sensor collector's telemetry WebSocket and shows
live gas and temperature readings, node distances, alerts and a rolling
chart. It reconnects on its own whenever the collector goes away.

Examples:
  hazmon
  hazmon --endpoint ws://pi.local:8001/ws
  hazmon logs
  hazmon snapshot -o chart.png --samples 30`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd, dashboardFlags)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: .hazmon.yaml, then ~/.config/hazmon/config.yaml)")
	addDashboardFlags(rootCmd, &dashboardFlags)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// loadConfig resolves the config for a command. Without a config file the
// defaults apply.
func loadConfig() (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(configFlag)
	return cfg, err
}
