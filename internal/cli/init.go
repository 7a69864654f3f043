package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/hazmon/internal/config"
	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir            string // Where to write the file; defaults to cwd
	Host           string // Collector host
	Port           int    // Telemetry port
	Path           string // WebSocket path
	LogPort        int    // Log server port
	Source         string // Chart source
	Overwrite      bool   // Overwrite an existing file without asking
	NonInteractive bool   // Skip prompts, use flags and defaults
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .hazmon.yaml config",
	Long: `Write a .hazmon.yaml config in the current directory.

Asks for the collector address and chart source, or takes them from flags
with --non-interactive. Unset values keep their defaults.

Examples:
  hazmon init
  hazmon init --non-interactive --host pi.local --path /ws
  hazmon init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		if !opts.NonInteractive && !term.IsTerminal(int(os.Stdin.Fd())) {
			opts.NonInteractive = true
		}
		path, err := Init(opts)
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", successStyle.Render("✓"), path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	f := initCmd.Flags()
	f.StringVar(&initOpts.Host, "host", "", "collector host (default localhost)")
	f.IntVar(&initOpts.Port, "port", 0, "telemetry WebSocket port (default 8001)")
	f.StringVar(&initOpts.Path, "path", "", "telemetry WebSocket path (default /)")
	f.IntVar(&initOpts.LogPort, "log-port", 0, "log server port (default 8081)")
	f.StringVar(&initOpts.Source, "source", "", "chart source (default synthetic)")
	f.BoolVar(&initOpts.Overwrite, "force", false, "overwrite an existing config")
	f.BoolVar(&initOpts.NonInteractive, "non-interactive", false, "don't prompt")
}

// Init writes a config file and returns its path. An empty path with a nil
// error means the user declined to overwrite.
func Init(opts InitOptions) (string, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return "", errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("'%s' already exists. Overwrite?", config.ConfigFileName)).
				Value(&overwrite),
		))
		if err := form.Run(); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input", "Try running with --force to overwrite")
		}
		if !overwrite {
			return "", nil
		}
	}

	cfg := config.DefaultConfig()
	applyInitOptions(cfg, opts)

	if !opts.NonInteractive {
		if err := promptInit(cfg); err != nil {
			return "", err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return "", err
	}

	data, err := renderConfig(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}
	return configPath, nil
}

func applyInitOptions(cfg *config.Config, opts InitOptions) {
	if opts.Host != "" {
		cfg.Telemetry.Host = opts.Host
		cfg.Logs.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Telemetry.Port = opts.Port
	}
	if opts.Path != "" {
		cfg.Telemetry.Path = opts.Path
	}
	if opts.LogPort != 0 {
		cfg.Logs.Port = opts.LogPort
	}
	if opts.Source != "" {
		cfg.Chart.Source = opts.Source
	}
}

func promptInit(cfg *config.Config) error {
	host := cfg.Telemetry.Host
	port := strconv.Itoa(cfg.Telemetry.Port)
	path := cfg.Telemetry.Path
	logPort := strconv.Itoa(cfg.Logs.Port)
	source := cfg.Chart.Source

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Collector host").
				Description("Where the sensor collector runs; empty means localhost").
				Placeholder("pi.local").
				Value(&host).
				Validate(func(s string) error {
					if strings.ContainsAny(s, " /\t") {
						return fmt.Errorf("host cannot contain spaces or slashes")
					}
					return nil
				}),
			huh.NewInput().
				Title("Telemetry port").
				Value(&port).
				Validate(validPort),
			huh.NewInput().
				Title("Telemetry path").
				Description("Usually / or /ws").
				Value(&path),
			huh.NewInput().
				Title("Log server port").
				Value(&logPort).
				Validate(validPort),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Chart source").
				Options(
					huh.NewOption("Synthetic (no sensor needed)", config.SourceSynthetic),
					huh.NewOption("Gas (MQ3)", config.SourceMQ3),
					huh.NewOption("Temperature", config.SourceTemp),
					huh.NewOption("Gas distance", config.SourceDistMQ3),
					huh.NewOption("Temperature distance", config.SourceDistTemp),
				).
				Value(&source),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive")
	}

	cfg.Telemetry.Host = strings.TrimSpace(host)
	cfg.Logs.Host = cfg.Telemetry.Host
	cfg.Telemetry.Port, _ = strconv.Atoi(port)
	cfg.Telemetry.Path = path
	cfg.Logs.Port, _ = strconv.Atoi(logPort)
	cfg.Chart.Source = source
	return nil
}

func validPort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

// fileConfig mirrors config.Config with durations as strings so the
// written file reads "3s" rather than nanoseconds.
type fileConfig struct {
	Version   int `yaml:"version"`
	Telemetry struct {
		Host             string `yaml:"host"`
		Port             int    `yaml:"port"`
		Path             string `yaml:"path"`
		Backoff          string `yaml:"backoff"`
		MaxBackoff       string `yaml:"max_backoff,omitempty"`
		HandshakeTimeout string `yaml:"handshake_timeout"`
	} `yaml:"telemetry"`
	Logs struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
		Timeout string `yaml:"timeout"`
	} `yaml:"logs"`
	Chart struct {
		Capacity int    `yaml:"capacity"`
		Source   string `yaml:"source"`
		Interval string `yaml:"interval"`
		Width    int    `yaml:"width"`
		Height   int    `yaml:"height"`
	} `yaml:"chart"`
	Alerts struct {
		Capacity      int     `yaml:"capacity"`
		GasThreshold  float64 `yaml:"gas_threshold"`
		FireThreshold float64 `yaml:"fire_threshold"`
	} `yaml:"alerts"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

const configHeader = `# hazmon configuration
# Run 'hazmon' to open the dashboard, 'hazmon logs' to print the collector log.

`

// renderConfig produces the YAML written by init.
func renderConfig(cfg *config.Config) ([]byte, error) {
	var fc fileConfig
	fc.Version = cfg.Version

	fc.Telemetry.Host = cfg.Telemetry.Host
	fc.Telemetry.Port = cfg.Telemetry.Port
	fc.Telemetry.Path = cfg.Telemetry.Path
	fc.Telemetry.Backoff = cfg.Telemetry.Backoff.String()
	if cfg.Telemetry.MaxBackoff > 0 {
		fc.Telemetry.MaxBackoff = cfg.Telemetry.MaxBackoff.String()
	}
	fc.Telemetry.HandshakeTimeout = cfg.Telemetry.HandshakeTimeout.String()

	fc.Logs.Host = cfg.Logs.Host
	fc.Logs.Port = cfg.Logs.Port
	fc.Logs.Path = cfg.Logs.Path
	fc.Logs.Timeout = cfg.Logs.Timeout.String()

	fc.Chart.Capacity = cfg.Chart.Capacity
	fc.Chart.Source = cfg.Chart.Source
	fc.Chart.Interval = cfg.Chart.Interval.String()
	fc.Chart.Width = cfg.Chart.Width
	fc.Chart.Height = cfg.Chart.Height

	fc.Alerts.Capacity = cfg.Alerts.Capacity
	fc.Alerts.GasThreshold = cfg.Alerts.GasThreshold
	fc.Alerts.FireThreshold = cfg.Alerts.FireThreshold

	fc.Metrics.Addr = cfg.Metrics.Addr

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config", "This shouldn't happen - please report this bug")
	}
	return append([]byte(configHeader), data...), nil
}
