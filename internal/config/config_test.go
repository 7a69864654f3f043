package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, 8001, cfg.Telemetry.Port)
	assert.Equal(t, "/", cfg.Telemetry.Path)
	assert.Equal(t, 3*time.Second, cfg.Telemetry.Backoff)
	assert.Zero(t, cfg.Telemetry.MaxBackoff)
	assert.Equal(t, 8081, cfg.Logs.Port)
	assert.Equal(t, "/log", cfg.Logs.Path)
	assert.Equal(t, 50, cfg.Chart.Capacity)
	assert.Equal(t, SourceSynthetic, cfg.Chart.Source)
	assert.Equal(t, 500*time.Millisecond, cfg.Chart.Interval)
	assert.Equal(t, 200, cfg.Alerts.Capacity)
	assert.Equal(t, 350.0, cfg.Alerts.GasThreshold)
	assert.Equal(t, 60.0, cfg.Alerts.FireThreshold)
	assert.Empty(t, cfg.Metrics.Addr)

	require.NoError(t, Validate(cfg))
}

func TestURLs(t *testing.T) {
	tests := []struct {
		name string
		tel  TelemetryConfig
		want string
	}{
		{"empty host defaults to localhost", TelemetryConfig{Port: 8001, Path: "/"}, "ws://localhost:8001/"},
		{"ws path", TelemetryConfig{Host: "192.168.4.1", Port: 8001, Path: "/ws"}, "ws://192.168.4.1:8001/ws"},
		{"path without slash", TelemetryConfig{Host: "rpi", Port: 9000, Path: "ws"}, "ws://rpi:9000/ws"},
		{"empty path", TelemetryConfig{Host: "rpi", Port: 9000}, "ws://rpi:9000/"},
		{"ipv6", TelemetryConfig{Host: "::1", Port: 8001, Path: "/"}, "ws://[::1]:8001/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tel.URL())
		})
	}

	logs := LogsConfig{Port: 8081, Path: "/log"}
	assert.Equal(t, "http://localhost:8081/log", logs.URL())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
version: 1
telemetry:
  host: 192.168.4.1
  port: 9001
  path: /ws
  backoff: 1s
  max_backoff: 30s
logs:
  port: 9081
  timeout: 2s
chart:
  source: mq3
  capacity: 30
alerts:
  gas_threshold: 400
metrics:
  addr: ":9109"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "192.168.4.1", cfg.Telemetry.Host)
	assert.Equal(t, 9001, cfg.Telemetry.Port)
	assert.Equal(t, "/ws", cfg.Telemetry.Path)
	assert.Equal(t, time.Second, cfg.Telemetry.Backoff)
	assert.Equal(t, 30*time.Second, cfg.Telemetry.MaxBackoff)
	// Unset keys keep their defaults
	assert.Equal(t, 5*time.Second, cfg.Telemetry.HandshakeTimeout)
	assert.Equal(t, 9081, cfg.Logs.Port)
	assert.Equal(t, "/log", cfg.Logs.Path)
	assert.Equal(t, 2*time.Second, cfg.Logs.Timeout)
	assert.Equal(t, SourceMQ3, cfg.Chart.Source)
	assert.Equal(t, 30, cfg.Chart.Capacity)
	assert.Equal(t, 500*time.Millisecond, cfg.Chart.Interval)
	assert.Equal(t, 400.0, cfg.Alerts.GasThreshold)
	assert.Equal(t, 60.0, cfg.Alerts.FireThreshold)
	assert.Equal(t, ":9109", cfg.Metrics.Addr)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	require.NoError(t, os.WriteFile(configPath, []byte("chart:\n  source: humidity\n"), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "humidity")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_BadYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("telemetry: [unclosed\n"), 0644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_Explicit(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1\n"), 0644))

	found, err := Find(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)

	_, err = Find(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 1\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	found, err := Find("")
	require.NoError(t, err)

	// macOS temp dirs resolve through /private
	want, _ := filepath.EvalSymlinks(filepath.Join(dir, ConfigFileName))
	got, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, want, got)
}

func TestLoadOrDefault_NoFile(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, "project")
	require.NoError(t, os.Mkdir(dir, 0755))
	t.Setenv("HOME", home)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("telemetry:\n  host: pi.local\n  port: 8001\n"), 0644))

	t.Setenv("HAZMON_TELEMETRY_PORT", "9001")
	t.Setenv("HAZMON_CHART_SOURCE", SourceTemp)
	t.Setenv("HAZMON_TELEMETRY_BACKOFF", "10s")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "pi.local", cfg.Telemetry.Host)
	assert.Equal(t, 9001, cfg.Telemetry.Port)
	assert.Equal(t, SourceTemp, cfg.Chart.Source)
	assert.Equal(t, 10*time.Second, cfg.Telemetry.Backoff)
}

func TestLoadOrDefault_EnvWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HAZMON_TELEMETRY_HOST", "10.0.0.7")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "ws://10.0.0.7:8001/", cfg.Telemetry.URL())
}

func TestLoadOrDefault_InvalidEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HAZMON_CHART_SOURCE", "humidity")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, _, err = LoadOrDefault("")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestCandidates(t *testing.T) {
	home := filepath.Join(string(filepath.Separator), "home", "pi")
	dir := filepath.Join(home, "src", "hazmon")

	got := candidates(dir, home)
	assert.Equal(t, []string{
		filepath.Join(dir, ConfigFileName),
		filepath.Join(home, "src", ConfigFileName),
		filepath.Join(home, GlobalConfigDir, GlobalConfigFile),
	}, got)
}
