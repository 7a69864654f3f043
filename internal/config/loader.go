package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the per-directory config file.
	ConfigFileName = ".hazmon.yaml"
	// GlobalConfigDir holds the per-user config, relative to $HOME.
	GlobalConfigDir = ".config/hazmon"
	// GlobalConfigFile is the file name inside GlobalConfigDir.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. HAZMON_TELEMETRY_HOST.
	EnvPrefix = "HAZMON"
)

// envKeys are the settings that can be overridden from the environment.
var envKeys = []string{
	"telemetry.host", "telemetry.port", "telemetry.path",
	"telemetry.backoff", "telemetry.max_backoff", "telemetry.handshake_timeout",
	"logs.host", "logs.port", "logs.path", "logs.timeout",
	"chart.capacity", "chart.source", "chart.interval", "chart.width", "chart.height",
	"alerts.capacity", "alerts.gas_threshold", "alerts.fire_threshold",
	"metrics.addr",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the config file at path. Environment overrides apply on top.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Run 'hazmon init' to create one, or drop --config to use the defaults")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read "+path,
			"Check the file is valid YAML")
	}
	return decode(v, path)
}

// LoadOrDefault loads the config Find locates. With no file every setting
// keeps its default unless the environment overrides it. The returned path
// is empty in that case.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		cfg, err := decode(newViper(), "the environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Find returns the config file to use, or "" when there is none. Candidates,
// first match wins:
//
//  1. the --config path, which must exist
//  2. .hazmon.yaml in the working directory or a parent, stopping at a git
//     root or $HOME
//  3. ~/.config/hazmon/config.yaml
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Can't use config file "+explicit,
				"Check the path passed to --config")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Can't determine the working directory", "")
	}
	home, _ := os.UserHomeDir()

	for _, candidate := range candidates(cwd, home) {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// candidates lists the config paths to try from dir upwards.
func candidates(dir, home string) []string {
	var out []string
	for {
		out = append(out, filepath.Join(dir, ConfigFileName))
		parent := filepath.Dir(dir)
		if parent == dir || dir == home || (home != "" && parent == home) || isGitRoot(dir) {
			break
		}
		dir = parent
	}
	if home != "" {
		out = append(out, filepath.Join(home, GlobalConfigDir, GlobalConfigFile))
	}
	return out
}

// decode merges v over the defaults, then validates. Durations arrive as
// strings ("3s", "500ms") and viper's decode hooks convert them.
func decode(v *viper.Viper, source string) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config in "+source,
			"Check value types: ports are numbers, durations look like 3s")
	}

	cfg.Telemetry.Path = normalizePath(cfg.Telemetry.Path)
	cfg.Logs.Path = normalizePath(cfg.Logs.Path)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isGitRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}
