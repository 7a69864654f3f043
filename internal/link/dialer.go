package link

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Frame types, matching the WebSocket opcodes.
const (
	TextMessage   = websocket.TextMessage
	BinaryMessage = websocket.BinaryMessage
)

// Conn is a live connection to the telemetry source. *websocket.Conn
// satisfies it.
type Conn interface {
	// ReadMessage blocks until a frame arrives or the connection fails.
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens connections to the telemetry source.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebSocketDialer dials the collector with gorilla/websocket.
type WebSocketDialer struct {
	dialer *websocket.Dialer
	header http.Header
}

// NewWebSocketDialer creates a dialer whose handshake is bounded by timeout.
// A zero timeout leaves the handshake bounded only by the dial context.
func NewWebSocketDialer(handshakeTimeout time.Duration) *WebSocketDialer {
	return &WebSocketDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   4096,
		},
		header: http.Header{"User-Agent": []string{"hazmon"}},
	}
}

// Dial implements Dialer.
func (d *WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, d.header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}
