package link

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type frame struct {
	typ  int
	data []byte
}

// fakeConn delivers frames pushed by the test until it is closed or the
// frame channel is closed (which reads as the server hanging up).
type fakeConn struct {
	frames    chan frame
	closed    chan struct{}
	closeOnce sync.Once
	onClose   func()
}

func newFakeConn(onClose func()) *fakeConn {
	return &fakeConn{
		frames:  make(chan frame, 16),
		closed:  make(chan struct{}),
		onClose: onClose,
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case f, ok := <-c.frames:
		if !ok {
			return 0, nil, io.EOF
		}
		return f.typ, f.data, nil
	case <-c.closed:
		return 0, nil, net.ErrClosed
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.onClose != nil {
			c.onClose()
		}
	})
	return nil
}

func (c *fakeConn) send(text string) {
	c.frames <- frame{typ: TextMessage, data: []byte(text)}
}

// hangUp makes the next read fail as if the server closed the socket.
func (c *fakeConn) hangUp() {
	close(c.frames)
}

// fakeDialer runs a script per attempt and tracks how many connections are
// open at once.
type fakeDialer struct {
	script func(attempt int) (*fakeConn, error)

	attempts atomic.Int32
	live     atomic.Int32
	maxLive  atomic.Int32

	mu    sync.Mutex
	conns []*fakeConn
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	n := int(d.attempts.Add(1))
	conn, err := d.script(n)
	if err != nil {
		return nil, err
	}

	live := d.live.Add(1)
	for {
		cur := d.maxLive.Load()
		if live <= cur || d.maxLive.CompareAndSwap(cur, live) {
			break
		}
	}

	d.mu.Lock()
	d.conns = append(d.conns, conn)
	d.mu.Unlock()
	return conn, nil
}

// conn returns the connection handed out on the given 1-based success.
func (d *fakeDialer) conn(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i-1 < len(d.conns) {
		return d.conns[i-1]
	}
	return nil
}

// newConn builds a fake connection whose Close decrements the live count.
func (d *fakeDialer) newConn() *fakeConn {
	return newFakeConn(func() { d.live.Add(-1) })
}

// immediateAfter fires at once and records the requested delays.
type immediateAfter struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (a *immediateAfter) after(d time.Duration) <-chan time.Time {
	a.mu.Lock()
	a.delays = append(a.delays, d)
	a.mu.Unlock()

	c := make(chan time.Time, 1)
	c <- time.Now()
	return c
}

func (a *immediateAfter) recorded() []time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]time.Duration, len(a.delays))
	copy(out, a.delays)
	return out
}

// nextEvent waits for the next event or fails the test.
func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// nextState skips message events until a state event arrives.
func nextState(t *testing.T, ch <-chan Event) StateEvent {
	t.Helper()
	for {
		if ev, ok := nextEvent(t, ch).(StateEvent); ok {
			return ev
		}
	}
}

// drain consumes events until the channel closes.
func drain(ch <-chan Event) {
	for range ch {
	}
}
