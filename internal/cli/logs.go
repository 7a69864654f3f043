package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/hazmon/internal/logview"
	"github.com/spf13/cobra"
)

var logsTimeoutFlag time.Duration

// logsCmd prints the collector log without starting the dashboard.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the collector log",
	Long: `Fetch the collector's log file once over HTTP and print it.

The address comes from logs.host, logs.port and logs.path in the config
(default http://localhost:8081/log).

Examples:
  hazmon logs
  hazmon logs --timeout 10s | grep ALERT`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		timeout := cfg.Logs.Timeout
		if logsTimeoutFlag > 0 {
			timeout = logsTimeoutFlag
		}
		return printLog(cmd, logview.NewFetcher(cfg.Logs.URL(), timeout))
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().DurationVar(&logsTimeoutFlag, "timeout", 0, "request timeout (default from config)")
}

func printLog(cmd *cobra.Command, f *logview.Fetcher) error {
	body, err := f.Fetch(commandContext(cmd))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), body)
	return err
}
