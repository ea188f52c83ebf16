package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Close codes sent to clients. Replacement and heartbeat eviction use
// distinct application codes so clients can tell them apart from transient
// failures and skip their reconnect loop.
const (
	CloseClientLeft       = websocket.CloseNormalClosure
	CloseReplaced         = 4000
	CloseHeartbeatTimeout = 4001
)

const (
	ReasonClientLeft       = "client_left"
	ReasonReplaced         = "replaced_by_new_connection"
	ReasonHeartbeatTimeout = "heartbeat_timeout"
)

// Conn is the hub's view of one live connection. The indirection keeps the
// registry testable without a network.
type Conn interface {
	Send(data []byte) error
	CloseWithCode(code int, reason string) error
}

const (
	writeWait = 10 * time.Second
	// sendBuffer is the per-connection outbox depth. A peer that falls this
	// far behind starts losing messages instead of stalling the room.
	sendBuffer = 64
)

// ErrSlowConsumer is returned by Send when a connection's outbox is full.
var ErrSlowConsumer = errors.New("send buffer full")

// socketWriter is the slice of *websocket.Conn the buffered connection needs.
type socketWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// bufferedConn decouples senders from the peer's socket: Send only enqueues,
// and a single writer goroutine drains the outbox. A broadcast to a room
// therefore never waits on one slow peer's write deadline.
type bufferedConn struct {
	mu     sync.Mutex // serializes socket writes with CloseWithCode
	ws     socketWriter
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

// NewConn wraps an upgraded websocket connection for use with the hub.
func NewConn(c *websocket.Conn) Conn {
	return newBufferedConn(c)
}

func newBufferedConn(w socketWriter) *bufferedConn {
	c := &bufferedConn{
		ws:     w,
		out:    make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

func (c *bufferedConn) writeLoop() {
	for {
		select {
		case <-c.closed:
			return
		case data := <-c.out:
			c.mu.Lock()
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.ws.WriteMessage(websocket.TextMessage, data)
			c.mu.Unlock()
			if err != nil {
				// the transport is broken; the reader side will see the
				// close and unregister this connection
				c.once.Do(func() { close(c.closed) })
				return
			}
		}
	}
}

func (c *bufferedConn) Send(data []byte) error {
	select {
	case <-c.closed:
		return errors.New("connection closed")
	default:
	}
	select {
	case c.out <- data:
		return nil
	default:
		return ErrSlowConsumer
	}
}

func (c *bufferedConn) CloseWithCode(code int, reason string) error {
	c.once.Do(func() { close(c.closed) })
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	return c.ws.Close()
}
