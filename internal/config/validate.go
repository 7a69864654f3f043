package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rileyhilliard/hazmon/internal/errors"
)

// validSources lists the accepted chart.source values.
var validSources = []string{SourceSynthetic, SourceMQ3, SourceTemp, SourceDistMQ3, SourceDistTemp}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but hazmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest hazmon release")
	}

	if err := validateTelemetry(cfg.Telemetry); err != nil {
		return err
	}
	if err := validateLogs(cfg.Logs); err != nil {
		return err
	}
	if err := validateChart(cfg.Chart); err != nil {
		return err
	}
	return validateAlerts(cfg.Alerts)
}

func validatePort(section string, port int) error {
	if port < 1 || port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s.port %d is out of range", section, port),
			"Use a TCP port between 1 and 65535")
	}
	return nil
}

func validateHost(section, host string) error {
	if strings.ContainsAny(host, " \t\n/") || strings.Contains(host, "://") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s.host %q should be a bare hostname or IP", section, host),
			"Drop any scheme or path, e.g. host: 192.168.4.1")
	}
	return nil
}

func validateTelemetry(t TelemetryConfig) error {
	if err := validateHost("telemetry", t.Host); err != nil {
		return err
	}
	if err := validatePort("telemetry", t.Port); err != nil {
		return err
	}
	if t.Backoff <= 0 {
		return errors.New(errors.ErrConfig,
			"telemetry.backoff must be positive",
			"Try something like 3s")
	}
	if t.MaxBackoff != 0 && t.MaxBackoff < t.Backoff {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("telemetry.max_backoff (%s) is smaller than telemetry.backoff (%s)", t.MaxBackoff, t.Backoff),
			"Remove max_backoff for a constant delay, or set it above backoff")
	}
	if t.HandshakeTimeout < 0 {
		return errors.New(errors.ErrConfig,
			"telemetry.handshake_timeout can't be negative",
			"Use 0 for no timeout or something like 5s")
	}
	return nil
}

func validateLogs(l LogsConfig) error {
	if err := validateHost("logs", l.Host); err != nil {
		return err
	}
	if err := validatePort("logs", l.Port); err != nil {
		return err
	}
	if l.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			"logs.timeout can't be negative",
			"Try something like 5s")
	}
	return nil
}

func validateChart(c ChartConfig) error {
	if c.Capacity < 2 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("chart.capacity %d is too small", c.Capacity),
			"A line needs at least 2 samples; the default is 50")
	}
	if !isValidSource(c.Source) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("chart.source %q isn't recognized", c.Source),
			"Use one of: "+strings.Join(validSources, ", "))
	}
	if c.Source == SourceSynthetic && c.Interval < 10*time.Millisecond {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("chart.interval %s is too short", c.Interval),
			"Use at least 10ms; the default is 500ms")
	}
	if c.Width < 4 || c.Height < 2 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("chart size %dx%d is too small", c.Width, c.Height),
			"Use at least width: 4 and height: 2")
	}
	return nil
}

func validateAlerts(a AlertsConfig) error {
	if a.Capacity < 1 {
		return errors.New(errors.ErrConfig,
			"alerts.capacity must be at least 1",
			"The default keeps the last 200 alerts")
	}
	if err := validateThreshold("alerts.gas_threshold", a.GasThreshold); err != nil {
		return err
	}
	return validateThreshold("alerts.fire_threshold", a.FireThreshold)
}

// validateThreshold rejects zero, negative and non-finite thresholds: any of
// them would put the dashboard in permanent danger or never in danger.
func validateThreshold(key string, v float64) error {
	if v > 0 && !math.IsInf(v, 0) {
		return nil
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("%s must be a positive number, got %v", key, v),
		"Remove the key to use the default (gas 350, fire 60)")
}

func isValidSource(s string) bool {
	for _, v := range validSources {
		if s == v {
			return true
		}
	}
	return false
}
