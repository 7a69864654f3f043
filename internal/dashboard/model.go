package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/hazmon/internal/chart"
	"github.com/rileyhilliard/hazmon/internal/config"
	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/rileyhilliard/hazmon/internal/link"
	"github.com/rileyhilliard/hazmon/internal/logger"
	"github.com/rileyhilliard/hazmon/internal/logview"
	"github.com/rileyhilliard/hazmon/internal/metrics"
	"github.com/rileyhilliard/hazmon/internal/telemetry"
)

// LogFetcher retrieves the collector log. *logview.Fetcher satisfies it.
type LogFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Options configures a dashboard Model.
type Options struct {
	// Events is the connection manager's event channel.
	Events <-chan link.Event

	// Endpoint is shown in the header.
	Endpoint string

	Fetcher LogFetcher
	Chart   config.ChartConfig

	// Alerts sizes the feed and sets the danger thresholds. A threshold that
	// is not positive (the zero value when unset) uses the default; loaded
	// configs never carry one because config.Validate rejects it.
	Alerts config.AlertsConfig

	Metrics *metrics.Metrics
	Logger  logger.Logger

	// Seed for the synthetic chart generator. Zero picks one from the clock.
	Seed int64
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	events   <-chan link.Event
	endpoint string
	metrics  *metrics.Metrics
	log      logger.Logger

	// Connection
	linkState   link.State
	statusSeen  bool
	statusUp    bool
	lastErr     error
	retryIn     time.Duration
	lastMessage time.Time
	linkClosed  bool

	// Telemetry
	sensors    telemetry.SensorSnapshot
	hasSensors bool
	nodes      []telemetry.Node
	feed       *Feed
	thresholds Thresholds
	danger     bool
	gasTrend   *chart.Buffer
	tempTrend  *chart.Buffer

	// Chart
	chart    *chart.Renderer
	surface  *chart.BrailleSurface
	source   string
	interval time.Duration
	walk     *chart.Walk

	// Log viewer
	fetcher    LogFetcher
	logOpen    bool
	logLoading bool
	logSeq     int
	logText    string
	logView    viewport.Model

	spinner  spinner.Model
	width    int
	height   int
	showHelp bool
	quitting bool
}

// NewModel creates a dashboard model reading events from opts.Events.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	cc := opts.Chart
	defaults := config.DefaultConfig()
	if cc.Width <= 0 {
		cc.Width = defaults.Chart.Width
	}
	if cc.Height <= 0 {
		cc.Height = defaults.Chart.Height
	}
	if cc.Source == "" {
		cc.Source = config.SourceSynthetic
	}
	if cc.Interval <= 0 {
		cc.Interval = defaults.Chart.Interval
	}

	thresholds := Thresholds{Gas: opts.Alerts.GasThreshold, Fire: opts.Alerts.FireThreshold}
	if !(thresholds.Gas > 0) {
		thresholds.Gas = DefaultGasThreshold
	}
	if !(thresholds.Fire > 0) {
		thresholds.Fire = DefaultFireThreshold
	}

	surface := chart.NewBrailleSurface(cc.Width, cc.Height)
	_, dotsHigh := surface.Size()

	sp := spinner.New()
	sp.Spinner = connectingSpinner
	sp.Style = spinnerStyle

	m := Model{
		events:     opts.Events,
		endpoint:   opts.Endpoint,
		metrics:    opts.Metrics,
		log:        opts.Logger,
		linkState:  link.Disconnected,
		feed:       NewFeed(opts.Alerts.Capacity),
		thresholds: thresholds,
		gasTrend:   chart.NewBuffer(trendWidth),
		tempTrend:  chart.NewBuffer(trendWidth),
		chart:      chart.NewRenderer(cc.Capacity, surface),
		surface:    surface,
		source:     cc.Source,
		interval:   cc.Interval,
		fetcher:    opts.Fetcher,
		logView:    viewport.New(80, 10),
		spinner:    sp,
	}
	if m.source == config.SourceSynthetic {
		// Keep the walk between the baseline and the top edge.
		top := float64(dotsHigh - chart.BaselineInset - 1)
		m.walk = chart.NewWalk(0, top, 2, opts.Seed)
	}
	return m
}

// Init starts listening for link events, the spinner and, for the synthetic
// source, the sample generator.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForEvent(), m.spinner.Tick}
	if m.walk != nil {
		cmds = append(cmds, m.sampleTickCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		if m.logOpen {
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		if m.logOpen {
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLogView()

	case linkEventMsg:
		m.applyEvent(msg.event)
		return m, m.waitForEvent()

	case linkClosedMsg:
		m.linkClosed = true
		m.linkState = link.Disconnected

	case sampleTickMsg:
		if m.walk != nil {
			m.addSample(m.walk.Next())
		}
		return m, m.sampleTickCmd()

	case logLoadedMsg:
		m.applyLog(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// waitForEvent returns a command that blocks for the next link event.
func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return linkClosedMsg{}
		}
		return linkEventMsg{event: ev}
	}
}

// sampleTickCmd schedules the next synthetic sample.
func (m Model) sampleTickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return sampleTickMsg(t)
	})
}

// fetchLogCmd starts a fetch for the given request number.
func (m Model) fetchLogCmd(seq int) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		if fetcher == nil {
			return logLoadedMsg{seq: seq, err: errors.New(errors.ErrFetch, "No log endpoint configured", "")}
		}
		body, err := fetcher.Fetch(context.Background())
		return logLoadedMsg{seq: seq, body: body, err: err}
	}
}

// applyEvent folds one link event into the model.
func (m *Model) applyEvent(ev link.Event) {
	switch ev := ev.(type) {
	case link.StateEvent:
		m.linkState = ev.State
		switch ev.State {
		case link.Connecting:
			// A fresh connection starts without a known source status.
			m.statusSeen = false
		case link.Connected:
			m.lastErr = nil
			m.retryIn = 0
		case link.Disconnected:
			m.lastErr = ev.Err
			m.retryIn = ev.RetryIn
		}

	case link.MessageEvent:
		m.lastMessage = ev.Time
		for _, msg := range ev.Messages {
			m.applyMessage(msg, ev.Time)
		}
	}
}

// applyMessage routes one decoded message to the widget it updates.
func (m *Model) applyMessage(msg telemetry.Message, at time.Time) {
	switch msg := msg.(type) {
	case telemetry.SensorSnapshot:
		m.sensors = mergeSnapshot(m.sensors, msg)
		m.hasSensors = true
		addTrend(m.gasTrend, msg.MQ3)
		addTrend(m.tempTrend, msg.Temp)
		m.updateDanger(at)
		if v := msg.Field(m.source); v != nil {
			m.addSample(*v)
		}

	case telemetry.NodeList:
		m.nodes = msg.Nodes

	case telemetry.Alert:
		m.pushAlert(AlertEntry{
			Message:  msg.Message,
			Severity: msg.Severity,
			Origin:   OriginRemote,
			Received: at,
		})

	case telemetry.Status:
		m.statusSeen = true
		m.statusUp = msg.Online
	}
}

func (m *Model) updateDanger(at time.Time) {
	danger := m.thresholds.Danger(m.sensors)
	if danger && !m.danger {
		m.log.Warn("readings crossed the danger threshold")
		m.pushAlert(AlertEntry{
			Message:  DangerAlert,
			Severity: "danger",
			Origin:   OriginLocal,
			Received: at,
		})
	}
	m.danger = danger
}

func (m *Model) pushAlert(e AlertEntry) {
	if e.Received.IsZero() {
		e.Received = time.Now()
	}
	m.feed.Push(e)
	m.metrics.AlertAdded(e.Origin)
}

func addTrend(b *chart.Buffer, v *float64) {
	if v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
		b.Add(*v)
	}
}

// addSample feeds the chart. Non-finite readings are skipped.
func (m *Model) addSample(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	m.chart.AddSample(v)
	m.metrics.ChartSample()
}

// openLog shows the log viewer and starts a fetch.
func (m *Model) openLog() tea.Cmd {
	m.logOpen = true
	m.logLoading = true
	m.logSeq++
	m.logText = logview.LoadingText
	m.logView.SetContent(m.logText)
	m.logView.GotoTop()
	return m.fetchLogCmd(m.logSeq)
}

func (m *Model) applyLog(msg logLoadedMsg) {
	if msg.seq != m.logSeq {
		return
	}
	m.logLoading = false
	if msg.err != nil {
		m.log.Warn("log fetch failed: %s", errors.Summary(msg.err))
		m.metrics.LogFetchFailed()
		m.logText = logview.FailedText
	} else {
		m.logText = msg.body
	}
	m.logView.SetContent(m.logText)
	m.logView.GotoTop()
}

func (m *Model) resizeLogView() {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	m.logView.Width = w
	m.logView.Height = h
}

// Online reports whether the telemetry source is reachable: the link is up
// and the source hasn't said it is offline.
func (m Model) Online() bool {
	if m.linkState != link.Connected {
		return false
	}
	return !m.statusSeen || m.statusUp
}

// LinkState returns the connection state last reported by the manager.
func (m Model) LinkState() link.State { return m.linkState }

// Sensors returns the latest merged sensor readings.
func (m Model) Sensors() telemetry.SensorSnapshot { return m.sensors }

// Nodes returns the last node list.
func (m Model) Nodes() []telemetry.Node { return m.nodes }

// Alerts returns the alert feed, newest first.
func (m Model) Alerts() []AlertEntry { return m.feed.Entries() }

// Danger reports whether the readings are over a threshold.
func (m Model) Danger() bool { return m.danger }

// GasTrend returns the recent gas readings shown in the card sparkline.
func (m Model) GasTrend() []float64 { return m.gasTrend.Values() }

// TempTrend returns the recent temperature readings.
func (m Model) TempTrend() []float64 { return m.tempTrend.Values() }

// ChartValues returns the samples currently plotted.
func (m Model) ChartValues() []float64 { return m.chart.Values() }

// LogText returns what the log viewer is showing.
func (m Model) LogText() string { return m.logText }

// LogOpen reports whether the log viewer is visible.
func (m Model) LogOpen() bool { return m.logOpen }
