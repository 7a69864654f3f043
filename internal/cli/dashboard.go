package cli

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/hazmon/internal/config"
	"github.com/rileyhilliard/hazmon/internal/dashboard"
	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/rileyhilliard/hazmon/internal/link"
	"github.com/rileyhilliard/hazmon/internal/logger"
	"github.com/rileyhilliard/hazmon/internal/logview"
	"github.com/rileyhilliard/hazmon/internal/metrics"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// debugLogFile receives log output while the dashboard owns the terminal.
const debugLogFile = "hazmon-debug.log"

// DashboardFlags are the overrides accepted by the dashboard command.
type DashboardFlags struct {
	Endpoint    string
	MetricsAddr string
	Source      string
}

var dashboardFlags DashboardFlags

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live terminal dashboard",
	Long: `Start the interactive dashboard.

Shows sensor readings, nearby nodes, the alert feed and a rolling chart.
The connection to the collector is retried every few seconds while it is
down.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  c           Clear alert feed
  l           Open the log viewer (r reloads, Esc closes)
  ?           Show help

Examples:
  hazmon dashboard
  hazmon dashboard --endpoint pi.local:8001/ws
  hazmon dashboard --source temp --metrics-addr :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd, dashboardFlags)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	addDashboardFlags(dashboardCmd, &dashboardFlags)
}

func addDashboardFlags(cmd *cobra.Command, flags *DashboardFlags) {
	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", "", "telemetry endpoint, e.g. ws://localhost:8001/")
	cmd.Flags().StringVar(&flags.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().StringVar(&flags.Source, "source", "", "chart source: synthetic, mq3, temp, dist_mq3, dist_temp")
}

// resolveDashboardConfig loads the config and applies command-line overrides.
func resolveDashboardConfig(flags DashboardFlags) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := applyEndpoint(&cfg.Telemetry, flags.Endpoint); err != nil {
		return nil, err
	}
	if flags.MetricsAddr != "" {
		cfg.Metrics.Addr = flags.MetricsAddr
	}
	if flags.Source != "" {
		cfg.Chart.Source = flags.Source
	}
	if cfg.Metrics.Addr != "" {
		if err := validAddr(cfg.Metrics.Addr); err != nil {
			return nil, err
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runDashboard(cmd *cobra.Command, flags DashboardFlags) error {
	cfg, err := resolveDashboardConfig(flags)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'hazmon logs' or 'hazmon snapshot' from scripts")
	}

	// Nothing may write to the terminal behind Bubble Tea's back.
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(debugLogFile, "hazmon")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Can't open "+debugLogFile, "Unset "+logger.DebugEnv+" or check directory permissions")
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	met := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv, err := met.Serve(cfg.Metrics.Addr, logger.NewEnvLogger("[metrics]"))
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	mgr := link.NewManager(link.NewWebSocketDialer(cfg.Telemetry.HandshakeTimeout), link.Options{
		URL:        cfg.Telemetry.URL(),
		Backoff:    cfg.Telemetry.Backoff,
		MaxBackoff: cfg.Telemetry.MaxBackoff,
		Logger:     logger.NewEnvLogger("[link]"),
		Metrics:    met,
	})

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	go func() { _ = mgr.Run(ctx) }()

	model := dashboard.NewModel(dashboard.Options{
		Events:   mgr.Events(),
		Endpoint: cfg.Telemetry.URL(),
		Fetcher:  logview.NewFetcher(cfg.Logs.URL(), cfg.Logs.Timeout),
		Chart:    cfg.Chart,
		Alerts:   cfg.Alerts,
		Metrics:  met,
		Logger:   logger.NewEnvLogger("[dashboard]"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()

	// Graceful shutdown: close the socket and wait for the manager to stop
	mgr.Close()
	<-mgr.Done()

	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Dashboard exited with an error", "")
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
