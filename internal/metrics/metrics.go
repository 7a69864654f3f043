// Package metrics exposes dashboard-side counters for the telemetry link,
// the chart and the alert feed as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the hazmon collectors. A nil *Metrics is valid and records
// nothing, so components can take one unconditionally.
type Metrics struct {
	registry *prometheus.Registry

	framesReceived   prometheus.Counter
	framesDropped    prometheus.Counter
	connectAttempts  prometheus.Counter
	connectionState  prometheus.Gauge
	messagesByKind   *prometheus.CounterVec
	chartSamples     prometheus.Counter
	alertsReceived   *prometheus.CounterVec
	logFetchFailures prometheus.Counter
}

// New creates the collectors on a private registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hazmon_frames_received_total",
			Help: "Text frames read from the telemetry socket.",
		}),
		framesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hazmon_frames_dropped_total",
			Help: "Frames discarded because they could not be decoded.",
		}),
		connectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hazmon_connect_attempts_total",
			Help: "Dial attempts against the telemetry endpoint.",
		}),
		connectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hazmon_connection_state",
			Help: "Telemetry link state: 0 disconnected, 1 connecting, 2 connected.",
		}),
		messagesByKind: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hazmon_messages_total",
			Help: "Decoded telemetry messages by kind.",
		}, []string{"kind"}),
		chartSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hazmon_chart_samples_total",
			Help: "Samples appended to the rolling chart.",
		}),
		alertsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hazmon_alerts_total",
			Help: "Alerts added to the feed by origin (remote or local).",
		}, []string{"origin"}),
		logFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hazmon_log_fetch_failures_total",
			Help: "Failed log viewer fetches.",
		}),
	}

	reg.MustRegister(
		m.framesReceived,
		m.framesDropped,
		m.connectAttempts,
		m.connectionState,
		m.messagesByKind,
		m.chartSamples,
		m.alertsReceived,
		m.logFetchFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry backing these collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) FrameReceived() {
	if m != nil {
		m.framesReceived.Inc()
	}
}

func (m *Metrics) FrameDropped() {
	if m != nil {
		m.framesDropped.Inc()
	}
}

func (m *Metrics) ConnectAttempt() {
	if m != nil {
		m.connectAttempts.Inc()
	}
}

// SetConnectionState records the numeric link state.
func (m *Metrics) SetConnectionState(state int) {
	if m != nil {
		m.connectionState.Set(float64(state))
	}
}

// MessageDecoded counts one decoded message of the given kind.
func (m *Metrics) MessageDecoded(kind string) {
	if m != nil {
		m.messagesByKind.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) ChartSample() {
	if m != nil {
		m.chartSamples.Inc()
	}
}

// AlertAdded counts an alert; origin is "remote" or "local".
func (m *Metrics) AlertAdded(origin string) {
	if m != nil {
		m.alertsReceived.WithLabelValues(origin).Inc()
	}
}

func (m *Metrics) LogFetchFailed() {
	if m != nil {
		m.logFetchFailures.Inc()
	}
}
