package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/hazmon/internal/chart"
	"github.com/rileyhilliard/hazmon/internal/config"
	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/rileyhilliard/hazmon/internal/link"
	"github.com/rileyhilliard/hazmon/internal/logger"
	"github.com/rileyhilliard/hazmon/internal/telemetry"
	"github.com/spf13/cobra"
)

// SnapshotFlags configure the snapshot command.
type SnapshotFlags struct {
	Output   string
	Samples  int
	Width    int
	Height   int
	Timeout  time.Duration
	Source   string
	Endpoint string
}

var snapshotFlags SnapshotFlags

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#39FF14"))

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save the rolling chart as a PNG",
	Long: `Collect chart samples and write the chart to a PNG file.

With a sensor source (mq3, temp, dist_mq3, dist_temp) hazmon connects to
the collector and takes one sample per snapshot frame. With the synthetic
source no connection is needed. The chart keeps at most chart.capacity
samples, so only the newest ones are drawn.

Examples:
  hazmon snapshot
  hazmon snapshot --source mq3 --samples 30 -o gas.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSnapshot(cmd, snapshotFlags)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	f := snapshotCmd.Flags()
	f.StringVarP(&snapshotFlags.Output, "output", "o", "chart.png", "PNG file to write")
	f.IntVar(&snapshotFlags.Samples, "samples", chart.DefaultCapacity, "number of samples to collect")
	f.IntVar(&snapshotFlags.Width, "width", 600, "image width in pixels")
	f.IntVar(&snapshotFlags.Height, "height", 300, "image height in pixels")
	f.DurationVar(&snapshotFlags.Timeout, "timeout", 60*time.Second, "give up collecting after this long")
	f.StringVar(&snapshotFlags.Source, "source", "", "chart source (default from config)")
	f.StringVar(&snapshotFlags.Endpoint, "endpoint", "", "telemetry endpoint, e.g. ws://localhost:8001/")
}

func runSnapshot(cmd *cobra.Command, flags SnapshotFlags) error {
	if flags.Samples < 1 {
		return errors.New(errors.ErrConfig, "--samples must be at least 1", "")
	}

	cfg, err := resolveDashboardConfig(DashboardFlags{Endpoint: flags.Endpoint, Source: flags.Source})
	if err != nil {
		return err
	}

	surface, err := chart.NewPNGSurface(flags.Width, flags.Height)
	if err != nil {
		return err
	}
	r := chart.NewRenderer(cfg.Chart.Capacity, surface)

	ctx, cancel := context.WithTimeout(commandContext(cmd), flags.Timeout)
	defer cancel()

	var samples []float64
	if cfg.Chart.Source == config.SourceSynthetic {
		samples = syntheticSamples(flags.Samples, float64(flags.Height-chart.BaselineInset-1))
	} else {
		mgr := link.NewManager(link.NewWebSocketDialer(cfg.Telemetry.HandshakeTimeout), link.Options{
			URL:        cfg.Telemetry.URL(),
			Backoff:    cfg.Telemetry.Backoff,
			MaxBackoff: cfg.Telemetry.MaxBackoff,
			Logger:     logger.NewEnvLogger("[link]"),
		})
		go func() { _ = mgr.Run(ctx) }()

		fmt.Fprintf(cmd.ErrOrStderr(), "Collecting %d %s samples from %s\n",
			flags.Samples, cfg.Chart.Source, cfg.Telemetry.URL())
		samples, err = collectSamples(ctx, mgr.Events(), cfg.Chart.Source, flags.Samples)
		mgr.Close()
		<-mgr.Done()
		if err != nil {
			return err
		}
	}

	for _, v := range samples {
		r.AddSample(v)
	}

	if err := writePNG(flags.Output, surface); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %d samples to %s\n",
		successStyle.Render("✓"), r.Len(), flags.Output)
	return nil
}

// syntheticSamples draws n points from the random walk used by the
// dashboard's synthetic source.
func syntheticSamples(n int, top float64) []float64 {
	if top < 1 {
		top = 1
	}
	w := chart.NewWalk(0, top, top/20, 0)
	out := make([]float64, n)
	for i := range out {
		out[i] = w.Next()
	}
	return out
}

// collectSamples reads link events until n values of the source field have
// arrived. It returns what it has if the context ends first; having none at
// all is an error.
func collectSamples(ctx context.Context, events <-chan link.Event, source string, n int) ([]float64, error) {
	var (
		out     []float64
		lastErr error
	)
	for len(out) < n {
		select {
		case <-ctx.Done():
			return finishCollect(out, lastErr)
		case ev, ok := <-events:
			if !ok {
				return finishCollect(out, lastErr)
			}
			switch ev := ev.(type) {
			case link.StateEvent:
				if ev.Err != nil {
					lastErr = ev.Err
				}
			case link.MessageEvent:
				for _, msg := range ev.Messages {
					snap, ok := msg.(telemetry.SensorSnapshot)
					if !ok {
						continue
					}
					if v := snap.Field(source); v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
						out = append(out, *v)
					}
				}
			}
		}
	}
	return out[:n], nil
}

func finishCollect(out []float64, lastErr error) ([]float64, error) {
	if len(out) > 0 {
		return out, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New(errors.ErrConn, "No samples received before the timeout",
		"Check the collector is sending sensor frames, or raise --timeout")
}

func writePNG(path string, s *chart.PNGSurface) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender, "Can't create "+path, "Check directory permissions")
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender, "Can't write "+path, "")
	}
	return nil
}
