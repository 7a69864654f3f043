package link

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/hazmon/internal/errors"
	"github.com/rileyhilliard/hazmon/internal/logger"
	"github.com/rileyhilliard/hazmon/internal/metrics"
	"github.com/rileyhilliard/hazmon/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T, d Dialer, opts Options) (*Manager, context.CancelFunc) {
	t.Helper()
	if opts.URL == "" {
		opts.URL = "ws://collector:8001/"
	}
	m := NewManager(d, opts)
	ctx, cancel := context.WithCancel(context.Background())

	go func() { _ = m.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		go drain(m.Events())
		select {
		case <-m.Done():
		case <-time.After(2 * time.Second):
			t.Error("manager did not stop")
		}
	})
	return m, cancel
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(&fakeDialer{}, Options{URL: "ws://x:1/"})
	assert.Equal(t, DefaultBackoff, m.opts.Backoff)
	assert.Equal(t, Disconnected, m.State())
	assert.Equal(t, "ws://x:1/", m.URL())
}

func TestManager_ConnectsAndDeliversMessages(t *testing.T) {
	d := &fakeDialer{}
	d.script = func(int) (*fakeConn, error) { return d.newConn(), nil }

	m, _ := startManager(t, d, Options{})
	events := m.Events()

	assert.Equal(t, StateEvent{State: Connecting, Attempt: 1}, stripTime(nextState(t, events)))
	assert.Equal(t, StateEvent{State: Connected, Attempt: 1}, stripTime(nextState(t, events)))
	assert.Equal(t, Connected, m.State())

	d.conn(1).send(`{"type":"alert","message":"Gas detected"}`)

	ev := nextEvent(t, events)
	msg, ok := ev.(MessageEvent)
	require.True(t, ok, "expected MessageEvent, got %T", ev)
	assert.Equal(t, []telemetry.Message{telemetry.Alert{Message: "Gas detected"}}, msg.Messages)
	assert.False(t, msg.Time.IsZero())
}

func TestManager_MalformedFrameIsDropped(t *testing.T) {
	d := &fakeDialer{}
	d.script = func(int) (*fakeConn, error) { return d.newConn(), nil }
	log := logger.NewRecorder()
	met := metrics.New()

	m, _ := startManager(t, d, Options{Logger: log, Metrics: met})
	events := m.Events()
	nextState(t, events) // connecting
	nextState(t, events) // connected

	conn := d.conn(1)
	conn.send(`{not json`)
	conn.frames <- frame{typ: BinaryMessage, data: []byte{0x01}}
	conn.send(`{"type":"status","online":true}`)

	ev := nextEvent(t, events)
	msg, ok := ev.(MessageEvent)
	require.True(t, ok, "the bad frame must not produce an event, got %T", ev)
	assert.Equal(t, []telemetry.Message{telemetry.Status{Online: true}}, msg.Messages)

	// Still connected on the same socket
	assert.Equal(t, Connected, m.State())
	assert.Equal(t, int32(1), d.attempts.Load())
	assert.True(t, log.HasLevel(logger.LevelWarn))
	assert.Equal(t, 1.0, counterValue(t, met, "hazmon_frames_dropped_total"))
	assert.Equal(t, 2.0, counterValue(t, met, "hazmon_frames_received_total"))
}

func TestManager_ReconnectsAfterImmediateClose(t *testing.T) {
	const backoff = 3 * time.Second
	d := &fakeDialer{}
	d.script = func(attempt int) (*fakeConn, error) {
		c := d.newConn()
		if attempt < 5 {
			c.hangUp() // closes right after opening
		}
		return c, nil
	}
	waits := &immediateAfter{}

	m, _ := startManager(t, d, Options{Backoff: backoff, after: waits.after})
	events := m.Events()

	for attempt := 1; attempt <= 4; attempt++ {
		assert.Equal(t, Connecting, nextState(t, events).State)
		assert.Equal(t, Connected, nextState(t, events).State)

		lost := nextState(t, events)
		assert.Equal(t, Disconnected, lost.State)
		assert.Equal(t, attempt, lost.Attempt)
		assert.Equal(t, backoff, lost.RetryIn)
		assert.True(t, errors.IsCode(lost.Err, errors.ErrConn))
	}

	assert.Equal(t, StateEvent{State: Connecting, Attempt: 5}, stripTime(nextState(t, events)))
	assert.Equal(t, StateEvent{State: Connected, Attempt: 5}, stripTime(nextState(t, events)))

	// Every close scheduled exactly one retry, all at the constant backoff
	assert.Equal(t, []time.Duration{backoff, backoff, backoff, backoff}, waits.recorded())
	assert.Equal(t, Connected, m.State())
}

func TestManager_RetryHonoursBackoffDelay(t *testing.T) {
	const backoff = 40 * time.Millisecond
	d := &fakeDialer{}
	d.script = func(attempt int) (*fakeConn, error) {
		if attempt == 1 {
			return nil, fmt.Errorf("connection refused")
		}
		return d.newConn(), nil
	}

	m, _ := startManager(t, d, Options{Backoff: backoff})
	events := m.Events()

	nextState(t, events) // connecting
	lost := nextState(t, events)
	require.Equal(t, Disconnected, lost.State)

	retry := nextState(t, events)
	require.Equal(t, Connecting, retry.State)
	gap := retry.Time.Sub(lost.Time)
	assert.GreaterOrEqual(t, gap, backoff)
	assert.Less(t, gap, backoff+time.Second)
}

func TestManager_DialErrorsWithCappedBackoff(t *testing.T) {
	d := &fakeDialer{}
	d.script = func(attempt int) (*fakeConn, error) {
		switch attempt {
		case 5:
			c := d.newConn()
			c.hangUp()
			return c, nil
		case 7:
			return d.newConn(), nil
		default:
			return nil, fmt.Errorf("dial tcp: connection refused")
		}
	}
	waits := &immediateAfter{}

	m, _ := startManager(t, d, Options{
		Backoff:    time.Second,
		MaxBackoff: 5 * time.Second,
		after:      waits.after,
	})
	events := m.Events()

	for {
		ev := nextState(t, events)
		if ev.State == Connected && ev.Attempt == 7 {
			break
		}
	}

	assert.Equal(t, []time.Duration{
		1 * time.Second, // attempt 1 refused
		2 * time.Second, // attempt 2 refused
		4 * time.Second, // attempt 3 refused
		5 * time.Second, // attempt 4 refused, capped
		1 * time.Second, // attempt 5 opened then closed: reset
		1 * time.Second, // attempt 6 refused
	}, waits.recorded())
}

func TestManager_NeverMoreThanOneLiveConnection(t *testing.T) {
	d := &fakeDialer{}
	d.script = func(attempt int) (*fakeConn, error) {
		if attempt%3 == 0 {
			return nil, fmt.Errorf("refused")
		}
		c := d.newConn()
		c.hangUp()
		return c, nil
	}
	waits := &immediateAfter{}

	m, cancel := startManager(t, d, Options{Backoff: time.Millisecond, after: waits.after})
	events := m.Events()

	for d.attempts.Load() < 60 {
		nextEvent(t, events)
	}
	cancel()
	drain(events)

	assert.Equal(t, int32(1), d.maxLive.Load())
	assert.Equal(t, int32(0), d.live.Load(), "every connection must be closed")
}

func TestManager_CloseStopsAndClosesConnection(t *testing.T) {
	d := &fakeDialer{}
	d.script = func(int) (*fakeConn, error) { return d.newConn(), nil }

	m := NewManager(d, Options{URL: "ws://collector:8001/"})
	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(context.Background()) }()

	events := m.Events()
	nextState(t, events)
	nextState(t, events)

	m.Close()

	var last StateEvent
	for ev := range events {
		if se, ok := ev.(StateEvent); ok {
			last = se
		}
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, Disconnected, last.State)
	assert.Nil(t, last.Err)
	assert.Zero(t, last.RetryIn)
	assert.Equal(t, Disconnected, m.State())
	assert.Equal(t, int32(0), d.live.Load())
}

func TestManager_CloseBeforeRun(t *testing.T) {
	d := &fakeDialer{}
	d.script = func(int) (*fakeConn, error) { return d.newConn(), nil }

	m := NewManager(d, Options{URL: "ws://collector:8001/"})
	m.Close()

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, int32(0), d.attempts.Load())
	_, ok := <-m.Events()
	assert.False(t, ok)
}

func TestManager_RunTwice(t *testing.T) {
	d := &fakeDialer{}
	d.script = func(int) (*fakeConn, error) { return d.newConn(), nil }

	m, _ := startManager(t, d, Options{})
	nextState(t, m.Events())

	err := m.Run(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrConn))
}

func TestManager_IndependentInstances(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := &fakeDialer{}
			d.script = func(int) (*fakeConn, error) { return d.newConn(), nil }
			m := NewManager(d, Options{URL: "ws://collector:8001/"})
			ctx, cancel := context.WithCancel(context.Background())
			go func() { _ = m.Run(ctx) }()
			<-m.Events()
			<-m.Events()
			cancel()
			drain(m.Events())
		}()
	}
	wg.Wait()
}

func stripTime(ev StateEvent) StateEvent {
	ev.Time = time.Time{}
	return ev
}

func counterValue(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			var sum float64
			for _, metric := range f.GetMetric() {
				sum += metric.GetCounter().GetValue()
			}
			return sum
		}
	}
	return 0
}
