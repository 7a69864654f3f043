// Package link keeps a single live WebSocket connection to the telemetry
// collector, reconnecting after a fixed backoff whenever it drops, and hands
// decoded messages to the dashboard as events.
package link

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/rileyhilliard/hazmon/internal/logger"
	"github.com/rileyhilliard/hazmon/internal/metrics"
	"github.com/rileyhilliard/hazmon/internal/telemetry"
)

// DefaultBackoff is the delay between a lost connection and the next attempt.
const DefaultBackoff = 3 * time.Second

// eventBuffer is the capacity of the events channel.
const eventBuffer = 64

// Options configures a Manager.
type Options struct {
	// URL of the telemetry endpoint, e.g. ws://localhost:8001/.
	URL string

	// Backoff is the delay before reconnecting. Defaults to DefaultBackoff.
	Backoff time.Duration

	// MaxBackoff enables doubling the delay after consecutive failures, up to
	// this cap. Zero (or anything <= Backoff) keeps the delay constant.
	MaxBackoff time.Duration

	Logger  logger.Logger
	Metrics *metrics.Metrics

	// after is swapped in tests to observe scheduled delays.
	after func(time.Duration) <-chan time.Time
}

// Manager owns the connection to the telemetry source. Exactly one
// connection is live at a time: a new dial only happens after the previous
// connection has been closed and the backoff has elapsed.
type Manager struct {
	opts   Options
	dialer Dialer
	log    logger.Logger
	events chan Event

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	running bool
	closed  bool
	done    chan struct{}
}

// NewManager creates a manager. Call Run to start connecting.
func NewManager(dialer Dialer, opts Options) *Manager {
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.after == nil {
		opts.after = time.After
	}

	return &Manager{
		opts:   opts,
		dialer: dialer,
		log:    opts.Logger,
		events: make(chan Event, eventBuffer),
		state:  Disconnected,
		done:   make(chan struct{}),
	}
}

// Events returns the channel of state transitions and decoded messages.
// It is closed when Run returns.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// URL returns the endpoint this manager connects to.
func (m *Manager) URL() string {
	return m.opts.URL
}

// Done is closed once Run has returned.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Run connects and keeps reconnecting until ctx is cancelled or Close is
// called. It blocks; run it in its own goroutine. Run may only be called once.
func (m *Manager) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New(errors.ErrConn, "Connection manager is already running", "")
	}
	ctx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	if m.closed {
		cancel()
	}
	m.mu.Unlock()

	defer func() {
		cancel()
		m.setState(Disconnected)
		m.opts.Metrics.SetConnectionState(int(Disconnected))
		close(m.events)
		close(m.done)
	}()

	delay := m.opts.Backoff
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return nil
		}

		opened, err := m.connectOnce(ctx, attempt)
		if ctx.Err() != nil {
			m.tryEmit(StateEvent{State: Disconnected, Attempt: attempt, Time: time.Now()})
			return nil
		}

		if opened {
			// The connection was up before it went away: start over from
			// the base delay.
			delay = m.opts.Backoff
		}

		m.log.Warn("telemetry link lost (%s), retrying in %s", errors.Summary(err), delay)
		m.transition(ctx, StateEvent{
			State:   Disconnected,
			Attempt: attempt,
			Err:     err,
			RetryIn: delay,
			Time:    time.Now(),
		})

		select {
		case <-ctx.Done():
			return nil
		case <-m.opts.after(delay):
		}

		if !opened {
			delay = m.nextDelay(delay)
		}
	}
}

// Close stops the manager and closes the live connection, if any. Calling
// Close before Run makes Run return immediately.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// connectOnce dials, reads until the connection fails, and closes it
// before returning. opened reports whether the dial succeeded; err is why
// the attempt ended.
func (m *Manager) connectOnce(ctx context.Context, attempt int) (opened bool, err error) {
	m.transition(ctx, StateEvent{State: Connecting, Attempt: attempt, Time: time.Now()})
	m.opts.Metrics.ConnectAttempt()
	m.log.Debug("dialing %s (attempt %d)", m.opts.URL, attempt)

	conn, err := m.dialer.Dial(ctx, m.opts.URL)
	if err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConn,
			"Can't reach the telemetry endpoint "+m.opts.URL,
			"Check the collector is running and telemetry.host/port are right")
	}

	// Closing the connection is the only way to unblock ReadMessage, so a
	// cancelled context closes it from the outside.
	var closeOnce sync.Once
	closeConn := func() {
		closeOnce.Do(func() {
			_ = conn.Close()
		})
	}
	stop := context.AfterFunc(ctx, closeConn)
	defer func() {
		stop()
		closeConn()
	}()

	m.log.Info("connected to %s", m.opts.URL)
	m.transition(ctx, StateEvent{State: Connected, Attempt: attempt, Time: time.Now()})

	return true, closeCause(m.readLoop(ctx, conn))
}

// readLoop delivers frames until the connection fails.
func (m *Manager) readLoop(ctx context.Context, conn Conn) error {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if msgType != TextMessage {
			m.log.Debug("ignoring non-text frame (type %d, %d bytes)", msgType, len(data))
			continue
		}

		m.opts.Metrics.FrameReceived()
		msgs, err := telemetry.Decode(data)
		if err != nil {
			m.opts.Metrics.FrameDropped()
			m.log.Warn("dropping frame: %s", errors.Summary(err))
			continue
		}
		for _, msg := range msgs {
			m.opts.Metrics.MessageDecoded(msg.Kind().String())
		}

		m.emit(ctx, MessageEvent{Messages: msgs, Time: time.Now()})
	}
}

func (m *Manager) nextDelay(d time.Duration) time.Duration {
	if m.opts.MaxBackoff <= m.opts.Backoff {
		return m.opts.Backoff
	}
	next := d * 2
	if next > m.opts.MaxBackoff {
		next = m.opts.MaxBackoff
	}
	return next
}

// transition records a state change and publishes it.
func (m *Manager) transition(ctx context.Context, ev StateEvent) {
	m.setState(ev.State)
	m.opts.Metrics.SetConnectionState(int(ev.State))
	m.emit(ctx, ev)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// emit blocks until the event is consumed or ctx is cancelled.
func (m *Manager) emit(ctx context.Context, ev Event) {
	select {
	case m.events <- ev:
	case <-ctx.Done():
	}
}

// tryEmit publishes without blocking; used on the way out.
func (m *Manager) tryEmit(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

// closeCause turns the end of a read loop into the error reported with the
// Disconnected event.
func closeCause(err error) error {
	if err == nil {
		return nil
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return errors.WrapWithCode(err, errors.ErrConn, "Collector closed the connection", "")
	}
	return errors.WrapWithCode(err, errors.ErrConn, "Connection lost", "")
}
