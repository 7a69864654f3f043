package cli

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/rileyhilliard/hazmon/internal/config"
	"github.com/rileyhilliard/hazmon/internal/errors"
)

// applyEndpoint overrides the telemetry host, port and path from an
// --endpoint value. Accepted forms: ws://host:port/path, host:port/path,
// host:port and host.
func applyEndpoint(cfg *config.TelemetryConfig, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil
	}

	raw := endpoint
	if !strings.Contains(raw, "://") {
		raw = "ws://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a telemetry endpoint", endpoint),
			"Try something like ws://localhost:8001/ or pi.local:8001")
	}
	if u.Scheme != "ws" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported endpoint scheme %q", u.Scheme),
			"The telemetry endpoint is a WebSocket: use ws://")
	}

	host := u.Hostname()
	if host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' has no host", endpoint),
			"Try something like ws://localhost:8001/")
	}
	cfg.Host = host

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Invalid port "+p, "")
		}
		cfg.Port = port
	}
	if u.Path != "" {
		cfg.Path = u.Path
	}
	return nil
}

// validAddr checks a listen address such as :9090 or 127.0.0.1:9090.
func validAddr(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a valid listen address", addr),
			"Use host:port, for example :9090")
	}
	return nil
}
