// Package client implements the producer-side channel transport: one
// websocket per enabled channel, dialed against the bridge's shared
// port, with fixed-delay reconnect while the owning session stays
// active.
package client

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/telesense/sensebridge/internal/core"
)

// ReconnectDelay is the fixed wait before a reconnect attempt.
const ReconnectDelay = time.Second

const sendBuffer = 64

// KeepAliveFunc reports whether the channel should stay up: the session
// is still active and the channel's sensor is still enabled. Checked
// before every reconnect attempt; a timer firing after this turns false
// is a no-op.
type KeepAliveFunc func() bool

// ChannelClient is one duplex channel endpoint. Send is fire-and-forget:
// when the channel is not open the call silently drops the frame (never
// buffers across reconnects, never blocks).
type ChannelClient struct {
	url       string
	key       core.ChannelKey
	keepAlive KeepAliveFunc
	onMessage func([]byte)
	dialer    *websocket.Dialer
	delay     time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	send   chan []byte
	status core.Status
	retry  *time.Timer
	closed bool
}

// Option tweaks a ChannelClient; used by tests to shorten the delay.
type Option func(*ChannelClient)

func WithReconnectDelay(d time.Duration) Option {
	return func(c *ChannelClient) { c.delay = d }
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *ChannelClient) { c.dialer = d }
}

// Open creates the client and starts the first connection attempt in
// the background. baseURL is ws(s)://host:port without a path.
func Open(baseURL string, key core.ChannelKey, keepAlive KeepAliveFunc, onMessage func([]byte), opts ...Option) *ChannelClient {
	c := &ChannelClient{
		url:       baseURL + "/" + string(key),
		key:       key,
		keepAlive: keepAlive,
		onMessage: onMessage,
		dialer:    websocket.DefaultDialer,
		delay:     ReconnectDelay,
		status:    core.StatusConnecting,
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.connect()
	return c
}

func (c *ChannelClient) Key() core.ChannelKey { return c.key }

// Status is advisory only and never part of the delivery contract.
func (c *ChannelClient) Status() core.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Send drops the frame silently unless the channel is currently open.
// The buffered send happens under the mutex: the disconnect path closes
// the send channel, and a frame racing that close must drop, not panic.
func (c *ChannelClient) Send(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != core.StatusConnected || c.send == nil {
		return
	}

	select {
	case c.send <- data:
	default:
		// Most-recent-wins: a slow link loses frames, it never stalls
		// the capture loop.
		log.Debug().Str("module", "client").Str("channel", string(c.key)).Msg("send buffer full, frame dropped")
	}
}

// Close tears the channel down and cancels any pending reconnect timer.
func (c *ChannelClient) Close() {
	c.mu.Lock()
	c.closed = true
	c.status = core.StatusDisconnected
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	conn := c.conn
	c.conn = nil
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (c *ChannelClient) connect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.status = core.StatusConnecting
	c.mu.Unlock()

	conn, resp, err := c.dialer.Dial(c.url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		log.Warn().Err(err).Str("module", "client").Str("channel", string(c.key)).Msg("dial failed")
		c.onDisconnect()
		return
	}

	c.mu.Lock()
	if c.closed {
		// Closed while the dial was in flight; re-check before acting.
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.send = make(chan []byte, sendBuffer)
	c.status = core.StatusConnected
	send := c.send
	c.mu.Unlock()

	log.Info().Str("module", "client").Str("channel", string(c.key)).Str("status", core.StatusConnected.String()).Msg("channel connected")

	go c.writeLoop(conn, send)
	go c.readLoop(conn)
}

func (c *ChannelClient) writeLoop(conn *websocket.Conn, send <-chan []byte) {
	for data := range send {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			log.Warn().Err(err).Str("module", "client").Str("channel", string(c.key)).Msg("write error")
			return
		}
	}
}

func (c *ChannelClient) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.dropConn(conn)
			c.onDisconnect()
			return
		}
		if c.onMessage != nil {
			c.onMessage(data)
		}
	}
}

// dropConn detaches conn if it is still the current one. A stale read
// loop from a previous connection must not disturb a newer one.
func (c *ChannelClient) dropConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		return
	}
	c.conn = nil
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
	if !c.closed {
		c.status = core.StatusDisconnected
	}
}

// onDisconnect schedules exactly one reconnect attempt after the fixed
// delay, unless the channel was closed or the keep-alive predicate says
// the session ended or the sensor was disabled.
func (c *ChannelClient) onDisconnect() {
	// keepAlive may take the session's lock; never call it while
	// holding ours.
	alive := c.keepAlive()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !alive {
		c.status = core.StatusDisconnected
		return
	}
	if c.retry != nil {
		return
	}
	c.status = core.StatusDisconnected
	log.Info().Str("module", "client").Str("channel", string(c.key)).Dur("delay", c.delay).Msg("scheduling reconnect")
	c.retry = time.AfterFunc(c.delay, func() {
		alive := c.keepAlive()
		c.mu.Lock()
		c.retry = nil
		if c.closed || !alive {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		c.connect()
	})
}
