// Package ws hosts the server half of the channel transport: one
// websocket endpoint per channel path, upgraded from the shared HTTP
// port. Adapters own the sockets; core only sees PeerConnection.
package ws

import (
	"sync"
	"time"

	"github.com/telesense/sensebridge/internal/core"
)

const (
	sendBuffer    = 64
	writeDeadline = 5 * time.Second
)

// WSConn is an indirection over *websocket.Conn to ease testing.
type WSConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// peerConn is one connected endpoint. TrySend never blocks: a full send
// buffer drops the frame for this peer only.
type peerConn struct {
	conn WSConn
	send chan core.Frame

	mu   sync.Mutex
	open bool
	once sync.Once
}

func newPeerConn(conn WSConn) *peerConn {
	return &peerConn{
		conn: conn,
		send: make(chan core.Frame, sendBuffer),
		open: true,
	}
}

func (c *peerConn) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *peerConn) TrySend(f core.Frame) error {
	// A close handler may fire while a send is in flight; check state
	// rather than assuming it.
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return core.ErrChannelClosed
	}
	c.mu.Unlock()

	select {
	case c.send <- f:
		return nil
	default:
		return core.ErrBackpressure
	}
}

func (c *peerConn) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		c.open = false
		c.mu.Unlock()
		close(c.send)
		_ = c.conn.Close()
	})
}
