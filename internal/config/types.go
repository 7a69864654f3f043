package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Chart sample sources.
const (
	SourceSynthetic = "synthetic"
	SourceMQ3       = "mq3"
	SourceTemp      = "temp"
	SourceDistMQ3   = "dist_mq3"
	SourceDistTemp  = "dist_temp"
)

// Config represents the complete .hazmon.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Logs      LogsConfig      `yaml:"logs" mapstructure:"logs"`
	Chart     ChartConfig     `yaml:"chart" mapstructure:"chart"`
	Alerts    AlertsConfig    `yaml:"alerts" mapstructure:"alerts"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
}

// TelemetryConfig describes the WebSocket endpoint pushing sensor frames.
type TelemetryConfig struct {
	// Host of the collector. Empty means localhost.
	Host string `yaml:"host" mapstructure:"host"`

	// Port the collector listens on.
	Port int `yaml:"port" mapstructure:"port"`

	// Path of the WebSocket endpoint, "/" or "/ws" depending on deployment.
	Path string `yaml:"path" mapstructure:"path"`

	// Backoff is the delay between a lost connection and the next attempt.
	Backoff time.Duration `yaml:"backoff" mapstructure:"backoff"`

	// MaxBackoff caps the delay when it is larger than Backoff; the delay then
	// doubles on each consecutive failure. Zero keeps the delay constant.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`

	// HandshakeTimeout bounds a single dial attempt.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout" mapstructure:"handshake_timeout"`
}

// LogsConfig describes the HTTP endpoint serving the collector log.
type LogsConfig struct {
	Host    string        `yaml:"host" mapstructure:"host"`
	Port    int           `yaml:"port" mapstructure:"port"`
	Path    string        `yaml:"path" mapstructure:"path"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ChartConfig controls the rolling line chart.
type ChartConfig struct {
	// Capacity is how many samples the chart retains.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`

	// Source selects what feeds the chart: "synthetic" or a sensor field.
	Source string `yaml:"source" mapstructure:"source"`

	// Interval is the synthetic generator period.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Width and Height are the chart size in terminal cells.
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
}

// AlertsConfig controls the alert feed and local danger detection.
type AlertsConfig struct {
	// Capacity bounds the feed; the oldest entries are evicted first.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`

	// GasThreshold marks danger when mq3 reaches it.
	GasThreshold float64 `yaml:"gas_threshold" mapstructure:"gas_threshold"`

	// FireThreshold marks danger when temp reaches it (Celsius).
	FireThreshold float64 `yaml:"fire_threshold" mapstructure:"fire_threshold"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	// Addr to listen on, e.g. ":9109". Empty disables the endpoint.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Telemetry: TelemetryConfig{
			Host:             "",
			Port:             8001,
			Path:             "/",
			Backoff:          3 * time.Second,
			HandshakeTimeout: 5 * time.Second,
		},
		Logs: LogsConfig{
			Host:    "",
			Port:    8081,
			Path:    "/log",
			Timeout: 5 * time.Second,
		},
		Chart: ChartConfig{
			Capacity: 50,
			Source:   SourceSynthetic,
			Interval: 500 * time.Millisecond,
			Width:    60,
			Height:   8,
		},
		Alerts: AlertsConfig{
			Capacity:      200,
			GasThreshold:  350,
			FireThreshold: 60.0,
		},
	}
}

// hostOrLocal returns host, or localhost when it is empty.
func hostOrLocal(host string) string {
	if host == "" {
		return "localhost"
	}
	return host
}

// normalizePath makes sure a URL path starts with a slash.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

// URL returns the WebSocket URL, e.g. ws://localhost:8001/.
func (t TelemetryConfig) URL() string {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(hostOrLocal(t.Host), strconv.Itoa(t.Port)),
		Path:   normalizePath(t.Path),
	}
	return u.String()
}

// URL returns the log endpoint URL, e.g. http://localhost:8081/log.
func (l LogsConfig) URL() string {
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(hostOrLocal(l.Host), strconv.Itoa(l.Port)),
		Path:   normalizePath(l.Path),
	}
	return u.String()
}

// String describes the endpoint for headers and log lines.
func (t TelemetryConfig) String() string {
	return fmt.Sprintf("%s:%d", hostOrLocal(t.Host), t.Port)
}
